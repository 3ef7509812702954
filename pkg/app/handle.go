package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/byxorna/shipwright/pkg/draft"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/listing"
	"github.com/byxorna/shipwright/pkg/model"
	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// Handle is one section's collection with the record type erased, so the
// command line can treat every section alike.
type Handle interface {
	entity.Descriptor

	List(ctx context.Context, q remote.Query) (Listing, error)
	Get(ctx context.Context, idOrSlug string) (Row, error)
	Remove(ctx context.Context, id string) error
	// Attach adds img to the record's images and saves it
	Attach(ctx context.Context, idOrSlug string, img v1.Image) (Row, error)
	TakesImages() bool

	// Section is the admin screen for this collection
	Section(up remote.Uploader, opts model.Options) model.Section
}

// Row is a record as the command line prints it
type Row struct {
	ID       string
	Label    string
	Caption  string
	Status   v1.Status
	Created  string
	Markdown string
	Record   any
}

type Listing struct {
	Rows  []Row
	Query remote.Query
	Total int
	Pages int
}

type handle[T v1.Item] struct {
	entity.Kind[T]
	coll remote.Collection[T]
	log  *slog.Logger
}

func newHandle[T v1.Item](k entity.Kind[T], coll remote.Collection[T], log *slog.Logger) Handle {
	return &handle[T]{Kind: k, coll: coll, log: log.With("section", k.Name)}
}

// List loads one page. An empty sort falls back to the section's first sort
// key, as in the admin.
func (h *handle[T]) List(ctx context.Context, q remote.Query) (Listing, error) {
	m := listing.New[T](h.coll, q.PageSize, listing.WithLogger[T](h.log))
	defer m.Close()

	if q.Sort == "" && len(h.SortKeys) > 0 {
		q.Sort = h.SortKeys[0]
	}
	// search and filter send the list back to page one, so the page goes last
	m.SetQuery(listing.Search(q.Search), listing.Filter(q.Filter), listing.Sort(q.Sort))
	if err := m.Load(ctx, m.SetQuery(listing.Page(q.Page))); err != nil {
		return Listing{}, err
	}
	// past the end: settle on the last page there is
	if m.Page() > m.PageCount() {
		if f, ok := m.SetPage(m.PageCount()); ok {
			if err := m.Load(ctx, f); err != nil {
				return Listing{}, err
			}
		}
	}

	out := Listing{Query: m.Query(), Total: m.Total(), Pages: m.PageCount()}
	for _, item := range m.Items() {
		out.Rows = append(out.Rows, h.row(item))
	}
	return out, nil
}

func (h *handle[T]) Get(ctx context.Context, idOrSlug string) (Row, error) {
	item, err := h.coll.Get(ctx, idOrSlug)
	if err != nil {
		return Row{}, err
	}
	return h.row(item), nil
}

func (h *handle[T]) Remove(ctx context.Context, id string) error {
	if err := h.coll.Remove(ctx, id); err != nil {
		return err
	}
	h.log.Info("removed", "id", id)
	return nil
}

func (h *handle[T]) TakesImages() bool { return h.Schema.ImageField != "" }

// Attach goes through an edit session so the image is saved exactly as the
// admin form would save it, including the separate image sync.
func (h *handle[T]) Attach(ctx context.Context, idOrSlug string, img v1.Image) (Row, error) {
	if !h.TakesImages() {
		return Row{}, fmt.Errorf("%s take no images", h.Name)
	}
	item, err := h.coll.Get(ctx, idOrSlug)
	if err != nil {
		return Row{}, err
	}
	s := draft.NewSession[T](h.Schema, h.coll, h.log)
	if err := s.OpenEdit(item); err != nil {
		return Row{}, err
	}
	if err := s.Attach(img); err != nil {
		return Row{}, err
	}
	saved, err := s.Commit(ctx)
	if err != nil {
		return Row{}, err
	}
	return h.row(saved), nil
}

func (h *handle[T]) Section(up remote.Uploader, opts model.Options) model.Section {
	return model.New(h.Kind, h.coll, up, opts)
}

func (h *handle[T]) row(item T) Row {
	r := Row{
		ID:      item.Identifier(),
		Label:   item.Label(),
		Caption: item.Caption(),
		Record:  item,
	}
	if s, ok := any(item).(v1.Stateful); ok {
		r.Status = s.State()
	}
	if t, ok := any(item).(v1.Timestamped); ok && !t.Created().IsZero() {
		r.Created = t.Created().Format("2006-01-02 15:04")
	}
	if h.HasPreview() {
		r.Markdown = h.Markdown(item)
	}
	return r
}
