package listing

import (
	"context"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// Fetch is one issued list request. Its Run method is the only part of a
// load cycle that may execute off the UI loop.
type Fetch[T v1.Item] struct {
	Seq   uint64
	Query remote.Query

	coll remote.Collection[T]
	ctx  context.Context
}

// Fetched is the outcome of a Fetch, to be handed to Manager.Apply
type Fetched[T v1.Item] struct {
	Seq   uint64
	Query remote.Query
	Page  remote.Page[T]
	Err   error
}

// Run performs the request. It stops early when ctx is done or when the
// manager has superseded or closed the fetch.
func (f Fetch[T]) Run(ctx context.Context) Fetched[T] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if f.ctx != nil {
		defer context.AfterFunc(f.ctx, cancel)()
	}
	page, err := f.coll.List(ctx, f.Query)
	return Fetched[T]{Seq: f.Seq, Query: f.Query, Page: page, Err: err}
}

// Removal is a remove request for an item that is already gone from the
// visible page.
type Removal[T v1.Item] struct {
	ID   string
	Item T

	coll remote.Collection[T]
	ctx  context.Context
}

type Removed struct {
	ID  string
	Err error
}

func (r Removal[T]) Run(ctx context.Context) Removed {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.ctx != nil {
		defer context.AfterFunc(r.ctx, cancel)()
	}
	return Removed{ID: r.ID, Err: r.coll.Remove(ctx, r.ID)}
}
