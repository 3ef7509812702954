// Package memory serves admin collections out of process memory. It backs
// the demo mode and stands in for the API in tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/byxorna/shipwright/pkg/remote"
	"github.com/byxorna/shipwright/pkg/text"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/google/uuid"
)

// Collection holds every record of one kind and answers list queries the
// way the API does: filter, then search, then sort, then paginate.
type Collection[T v1.Item] struct {
	*sync.RWMutex

	name        string
	filterField string
	items       []T
	opts        options
}

type options struct {
	latency time.Duration
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*options)

// WithLatency delays every call, so demo mode shows loading states
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func NewCollection[T v1.Item](name string, items []T, filterField string, opts ...Option) *Collection[T] {
	o := options{now: time.Now, log: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Collection[T]{
		RWMutex:     &sync.RWMutex{},
		name:        name,
		filterField: filterField,
		items:       append([]T(nil), items...),
		opts:        o,
	}
}

func (c *Collection[T]) List(ctx context.Context, q remote.Query) (remote.Page[T], error) {
	if err := c.wait(ctx); err != nil {
		return remote.Page[T]{}, err
	}

	matched, err := c.query(q)
	if err != nil {
		return remote.Page[T]{}, err
	}

	total := len(matched)
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * q.PageSize
		if start > total {
			start = total
		}
		end := start + q.PageSize
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return remote.Page[T]{Items: matched, Total: total}, nil
}

func (c *Collection[T]) query(q remote.Query) ([]T, error) {
	c.RLock()
	defer c.RUnlock()

	needle := fold(q.Search)
	type row struct {
		item   T
		fields v1.Fields
	}
	rows := []row{}
	for _, it := range c.items {
		f, err := v1.FieldsOf(it)
		if err != nil {
			return nil, &remote.FetchError{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
		}
		if q.Filter != "" && c.filterField != "" && !strings.EqualFold(f.Text(c.filterField), q.Filter) {
			continue
		}
		if needle != "" && !strings.Contains(fold(it.FilterValue()+" "+it.Label()), needle) {
			continue
		}
		rows = append(rows, row{item: it, fields: f})
	}

	if key := strings.TrimPrefix(q.Sort, "-"); key != "" {
		desc := strings.HasPrefix(q.Sort, "-")
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := compare(rows[i].fields[key], rows[j].fields[key])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, idOrSlug string) (T, error) {
	var zero T
	if err := c.wait(ctx); err != nil {
		return zero, err
	}
	c.RLock()
	defer c.RUnlock()
	if i := c.find(idOrSlug); i >= 0 {
		return c.items[i], nil
	}
	if i := c.findSlug(idOrSlug); i >= 0 {
		return c.items[i], nil
	}
	return zero, c.notFound(idOrSlug)
}

func (c *Collection[T]) Create(ctx context.Context, payload v1.Fields) (T, error) {
	var zero T
	if err := c.wait(ctx); err != nil {
		return zero, err
	}
	c.Lock()
	defer c.Unlock()

	f := payload.Clone()
	f["id"] = uuid.NewString()
	if _, ok := f["createdAt"]; !ok {
		f["createdAt"] = c.opts.now().UTC().Format(time.RFC3339Nano)
	}
	if err := c.checkSlug(f, ""); err != nil {
		return zero, err
	}
	item, err := v1.Decode[T](f)
	if err != nil {
		return zero, &remote.FetchError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}
	c.items = append([]T{item}, c.items...)
	c.opts.log.Debug("created", "collection", c.name, "id", item.Identifier())
	return item, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, payload v1.Fields) (T, error) {
	return c.patch(ctx, id, func(f v1.Fields) {
		for k, v := range payload.Clone() {
			f[k] = v
		}
	})
}

func (c *Collection[T]) SyncImages(ctx context.Context, id string, images []v1.Image) error {
	_, err := c.patch(ctx, id, func(f v1.Fields) {
		f["images"] = append([]v1.Image{}, images...)
	})
	return err
}

func (c *Collection[T]) patch(ctx context.Context, id string, apply func(v1.Fields)) (T, error) {
	var zero T
	if err := c.wait(ctx); err != nil {
		return zero, err
	}
	c.Lock()
	defer c.Unlock()

	i := c.find(id)
	if i < 0 {
		return zero, c.notFound(id)
	}
	f, err := v1.FieldsOf(c.items[i])
	if err != nil {
		return zero, &remote.FetchError{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	apply(f)
	f["id"] = id
	if err := c.checkSlug(f, id); err != nil {
		return zero, err
	}
	item, err := v1.Decode[T](f)
	if err != nil {
		return zero, &remote.FetchError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}
	c.items[i] = item
	return item, nil
}

func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	c.Lock()
	defer c.Unlock()
	i := c.find(id)
	if i < 0 {
		return c.notFound(id)
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.opts.log.Debug("removed", "collection", c.name, "id", id)
	return nil
}

// All returns a snapshot of every record
func (c *Collection[T]) All() []T {
	c.RLock()
	defer c.RUnlock()
	return append([]T(nil), c.items...)
}

// Reset swaps every record for items
func (c *Collection[T]) Reset(items []T) {
	c.Lock()
	defer c.Unlock()
	c.items = append([]T(nil), items...)
	c.opts.log.Debug("reset", "collection", c.name, "records", len(items))
}

// Put adds item as the newest record, e.g. a media entry for an upload
func (c *Collection[T]) Put(item T) {
	c.Lock()
	defer c.Unlock()
	c.items = append([]T{item}, c.items...)
}

func (c *Collection[T]) find(id string) int {
	for i, it := range c.items {
		if it.Identifier() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) findSlug(slug string) int {
	for i, it := range c.items {
		f, err := v1.FieldsOf(it)
		if err == nil && f.Text("slug") != "" && f.Text("slug") == slug {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) checkSlug(f v1.Fields, self string) error {
	slug := f.Text("slug")
	if slug == "" {
		return nil
	}
	if i := c.findSlug(slug); i >= 0 && c.items[i].Identifier() != self {
		return &remote.FetchError{Status: http.StatusConflict, Message: fmt.Sprintf("slug %q is already taken", slug)}
	}
	return nil
}

func (c *Collection[T]) notFound(id string) error {
	return &remote.FetchError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s %q not found", c.name, id)}
}

func (c *Collection[T]) wait(ctx context.Context) error {
	if c.opts.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return &remote.FetchError{Message: "request cancelled", Err: err}
		}
		return nil
	}
	t := time.NewTimer(c.opts.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return &remote.FetchError{Message: "request cancelled", Err: ctx.Err()}
	case <-t.C:
		return nil
	}
}

func fold(s string) string {
	n, err := text.Normalize(s)
	if err != nil {
		n = s
	}
	return strings.ToLower(strings.TrimSpace(n))
}

// compare orders field values of mixed shape: missing values first, then
// numbers, then text.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}
