package listing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// ErrDropped is returned by Load when a newer fetch or Close made the result
// stale before it could be applied
var ErrDropped = errors.New("listing result dropped")

// Status is the load state of a listing
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Manager owns the visible page of one collection. It is not safe for
// concurrent use: every method is meant to be called from the UI loop, and
// only the Run methods of the jobs it hands out execute elsewhere.
type Manager[T v1.Item] struct {
	coll remote.Collection[T]
	log  *slog.Logger

	query  remote.Query
	status Status
	items  []T
	total  int
	err    error

	// seq tags the latest fetch; only a result carrying it may commit
	seq         uint64
	cancelFetch context.CancelFunc

	ctx  context.Context
	stop context.CancelFunc
}

type Option[T v1.Item] func(*Manager[T])

func WithLogger[T v1.Item](l *slog.Logger) Option[T] {
	return func(m *Manager[T]) { m.log = l }
}

// New returns an idle manager over coll. Nothing is fetched until the first
// SetQuery or Refresh.
func New[T v1.Item](coll remote.Collection[T], pageSize int, opts ...Option[T]) *Manager[T] {
	ctx, stop := context.WithCancel(context.Background())
	m := &Manager[T]{
		coll:  coll,
		log:   slog.Default(),
		query: remote.Query{Page: 1, PageSize: pageSize},
		ctx:   ctx,
		stop:  stop,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// QueryOption changes one field of the query. It reports whether the change
// must send the listing back to the first page.
type QueryOption func(q *remote.Query) (resetPage bool)

func Search(text string) QueryOption {
	return func(q *remote.Query) bool { q.Search = text; return true }
}

func Filter(value string) QueryOption {
	return func(q *remote.Query) bool { q.Filter = value; return true }
}

func Sort(key string) QueryOption {
	return func(q *remote.Query) bool { q.Sort = key; return false }
}

// PageSize changes the page size; the old page number means nothing under
// the new size so it resets too.
func PageSize(n int) QueryOption {
	return func(q *remote.Query) bool {
		if n > 0 {
			q.PageSize = n
		}
		return true
	}
}

func Page(n int) QueryOption {
	return func(q *remote.Query) bool {
		if n < 1 {
			n = 1
		}
		q.Page = n
		return false
	}
}

// SetQuery merges opts into the current query and starts a new load cycle.
// Page reset wins over an explicit Page option in the same call.
func (m *Manager[T]) SetQuery(opts ...QueryOption) Fetch[T] {
	reset := false
	for _, o := range opts {
		if o(&m.query) {
			reset = true
		}
	}
	if reset {
		m.query.Page = 1
	}
	return m.issue()
}

// SetPage moves to page n, clamped to the known page range. The bool is
// false when the page did not change and nothing needs fetching.
func (m *Manager[T]) SetPage(n int) (Fetch[T], bool) {
	n = Clamp(n, m.PageCount())
	if n == m.query.Page {
		return Fetch[T]{}, false
	}
	m.query.Page = n
	return m.issue(), true
}

func (m *Manager[T]) NextPage() (Fetch[T], bool) { return m.SetPage(m.query.Page + 1) }

func (m *Manager[T]) PrevPage() (Fetch[T], bool) { return m.SetPage(m.query.Page - 1) }

// Refresh re-issues the current query unconditionally
func (m *Manager[T]) Refresh() Fetch[T] {
	return m.issue()
}

func (m *Manager[T]) issue() Fetch[T] {
	m.invalidate()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel
	m.status = Loading
	return Fetch[T]{Seq: m.seq, Query: m.query, coll: m.coll, ctx: ctx}
}

// invalidate turns every fetch in flight into a stale one
func (m *Manager[T]) invalidate() {
	m.seq++
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// Apply commits the result of a fetch. Results of anything but the most
// recently issued fetch, and anything arriving after Close, are dropped.
func (m *Manager[T]) Apply(res Fetched[T]) bool {
	if m.Closed() {
		return false
	}
	if res.Seq != m.seq {
		m.log.Debug("dropping stale result", "seq", res.Seq, "latest", m.seq)
		return false
	}
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}

	if res.Err != nil {
		m.log.Warn("list failed", "query", res.Query, "error", res.Err)
		m.status = Failed
		m.err = res.Err
		m.items = nil
		m.total = 0
		return true
	}

	items := res.Page.Items
	if size := res.Query.PageSize; size > 0 && len(items) > size {
		items = items[:size]
	}
	m.items = append([]T(nil), items...)
	m.total = res.Page.Total
	if m.total < len(m.items) {
		m.total = len(m.items)
	}
	m.err = nil
	m.status = Ready
	return true
}

// Load runs f and applies its result. It is the blocking form of the
// issue/run/apply cycle for callers without an event loop.
func (m *Manager[T]) Load(ctx context.Context, f Fetch[T]) error {
	if !m.Apply(f.Run(ctx)) {
		return ErrDropped
	}
	return m.err
}

// Confirmation is a pending request to remove an item. Only a confirmed
// request can start a removal.
type Confirmation[T v1.Item] struct {
	Item T
}

// ConfirmRemove looks up id on the visible page and returns the question the
// caller must put to the user.
func (m *Manager[T]) ConfirmRemove(id string) (Confirmation[T], bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Confirmation[T]{}, false
	}
	return Confirmation[T]{Item: m.items[i]}, true
}

// OptimisticRemove drops the confirmed item from the visible page right away
// and returns the removal to run. Settle must be called with its outcome.
func (m *Manager[T]) OptimisticRemove(c Confirmation[T]) (Removal[T], bool) {
	id := c.Item.Identifier()
	i := m.indexOf(id)
	if i < 0 {
		return Removal[T]{}, false
	}

	// a fetch issued before the removal would bring the item back
	if m.status == Loading {
		m.invalidate()
		m.status = Ready
	}

	items := make([]T, 0, len(m.items)-1)
	items = append(items, m.items[:i]...)
	m.items = append(items, m.items[i+1:]...)
	if m.total > 0 {
		m.total--
	}
	return Removal[T]{ID: id, Item: c.Item, coll: m.coll, ctx: m.ctx}, true
}

// Settle reconciles a finished removal. The returned fetch must be run in
// either case; after a failure it is what restores the item.
func (m *Manager[T]) Settle(res Removed) Fetch[T] {
	if res.Err != nil {
		m.log.Warn("remove failed, reconciling", "id", res.ID, "error", res.Err)
	}
	return m.Refresh()
}

// Insert puts a freshly created item at the top of the visible page
func (m *Manager[T]) Insert(item T) {
	if m.indexOf(item.Identifier()) >= 0 {
		m.Replace(item)
		return
	}
	items := make([]T, 0, len(m.items)+1)
	items = append(items, item)
	items = append(items, m.items...)
	if size := m.query.PageSize; size > 0 && len(items) > size {
		items = items[:size]
	}
	m.items = items
	m.total++
}

// Replace swaps the visible item that has the same id as item. It reports
// false when the item is not on the visible page.
func (m *Manager[T]) Replace(item T) bool {
	i := m.indexOf(item.Identifier())
	if i < 0 {
		return false
	}
	items := append([]T(nil), m.items...)
	items[i] = item
	m.items = items
	return true
}

// Close cancels whatever is in flight and makes every later Apply a no-op
func (m *Manager[T]) Close() {
	m.stop()
	m.cancelFetch = nil
}

func (m *Manager[T]) Closed() bool { return m.ctx.Err() != nil }

func (m *Manager[T]) indexOf(id string) int {
	for i, it := range m.items {
		if it.Identifier() == id {
			return i
		}
	}
	return -1
}

func (m *Manager[T]) Query() remote.Query { return m.query }
func (m *Manager[T]) Status() Status      { return m.status }
func (m *Manager[T]) Loading() bool       { return m.status == Loading }
func (m *Manager[T]) Err() error          { return m.err }
func (m *Manager[T]) Total() int          { return m.total }
func (m *Manager[T]) Page() int           { return m.query.Page }

func (m *Manager[T]) PageCount() int {
	return PageCount(m.total, m.query.PageSize)
}

// Items returns a copy of the visible page. A failed listing shows as empty.
func (m *Manager[T]) Items() []T {
	return append([]T(nil), m.items...)
}

// Item returns the i-th visible item
func (m *Manager[T]) Item(i int) (T, bool) {
	if i < 0 || i >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[i], true
}

func (m *Manager[T]) Len() int { return len(m.items) }
