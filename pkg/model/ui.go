package model

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/byxorna/shipwright/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

const (
	statusMessageTimeout = time.Second * 2 // how long to show status messages like "saved"
	ellipsis             = "…"
)

// Options are shared by every section of one program
type Options struct {
	Context context.Context
	Logger  *slog.Logger
	// PageSize is the number of rows requested per page
	PageSize int
	// MaxUploadBytes caps picked images, 0 keeps the upload default
	MaxUploadBytes int64
	// StatusTimeout hides status messages after a while; 0 keeps them
	StatusTimeout time.Duration
	// Static disables spinner and cursor animation
	Static bool
}

func DefaultOptions() Options {
	return Options{
		Context:       context.Background(),
		Logger:        slog.Default(),
		PageSize:      12,
		StatusTimeout: statusMessageTimeout,
	}
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	ctx    context.Context
	log    *slog.Logger
	width  int
	height int
	opts   Options
}

func newCommon(opts Options) *commonModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 12
	}
	return &commonModel{ctx: opts.Context, log: opts.Logger, opts: opts}
}

// keyed messages belong to one section and are routed to it even when it is
// not on screen, so background loads still land.
type keyed interface {
	sectionKey() string
}

// Target reports which section msg belongs to
func Target(msg tea.Msg) (string, bool) {
	if k, ok := msg.(keyed); ok {
		return k.sectionKey(), true
	}
	return "", false
}

type statusMessageTimeoutMsg struct{ key string }

func (m statusMessageTimeoutMsg) sectionKey() string { return m.key }

// statusMessageType adds some context to the status message being sent.
type statusMessageType int

// Types of status messages.
const (
	normalStatusMessage statusMessageType = iota
	subtleStatusMessage
	errorStatusMessage
)

// statusMessage is an ephemeral note displayed in the UI.
type statusMessage struct {
	status  statusMessageType
	message string
}

// String returns a styled version of the status message appropriate for the
// given context.
func (s statusMessage) String() string {
	switch s.status {
	case subtleStatusMessage:
		return ui.DimGreenFg(s.message)
	case errorStatusMessage:
		return ui.RedFg(s.message)
	default:
		return ui.GreenFg(s.message)
	}
}

func waitForStatusMessageTimeout(key string, t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{key: key}
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		te.String(" ERROR ").
			Foreground(ui.Cream.Color()).
			Background(ui.Red.Color()).
			String(),
		err,
		ui.SubtleFg(exitMsg),
	)
	return dialogBoxStyle.Copy().Align(lipgloss.Center).Render(s)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
