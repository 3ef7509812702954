package model

import (
	"context"

	"github.com/byxorna/shipwright/pkg/draft"
	"github.com/byxorna/shipwright/pkg/listing"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/byxorna/shipwright/pkg/upload"
	tea "github.com/charmbracelet/bubbletea"
)

// MSG

type fetchedMsg[T v1.Item] struct {
	key string
	res listing.Fetched[T]
}

type removedMsg struct {
	key string
	res listing.Removed
}

type committedMsg[T v1.Item] struct {
	key string
	res draft.Committed[T]
}

type uploadedMsg struct {
	key string
	res upload.Result
}

type contentRenderedMsg struct {
	key     string
	id      string
	content string
	err     error
}

type editedMsg struct {
	key   string
	field string
	path  string
	err   error
}

func (m fetchedMsg[T]) sectionKey() string      { return m.key }
func (m removedMsg) sectionKey() string         { return m.key }
func (m committedMsg[T]) sectionKey() string    { return m.key }
func (m uploadedMsg) sectionKey() string        { return m.key }
func (m contentRenderedMsg) sectionKey() string { return m.key }
func (m editedMsg) sectionKey() string          { return m.key }

// COMMANDS

func fetchCmd[T v1.Item](ctx context.Context, key string, f listing.Fetch[T]) tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg[T]{key: key, res: f.Run(ctx)}
	}
}

func removeCmd[T v1.Item](ctx context.Context, key string, r listing.Removal[T]) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{key: key, res: r.Run(ctx)}
	}
}

func commitCmd[T v1.Item](ctx context.Context, key string, c draft.Commit[T]) tea.Cmd {
	return func() tea.Msg {
		return committedMsg[T]{key: key, res: c.Run(ctx)}
	}
}

func uploadCmd(ctx context.Context, key string, j upload.Job) tea.Cmd {
	return func() tea.Msg {
		return uploadedMsg{key: key, res: j.Run(ctx)}
	}
}
