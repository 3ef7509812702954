package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/byxorna/shipwright/pkg/config"
	"github.com/byxorna/shipwright/pkg/db/memory"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/remote"
	"github.com/byxorna/shipwright/pkg/site"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// Backend holds one collection per admin section, the image uploader and the
// public catalog, all talking to the same store.
type Backend struct {
	Demo    bool
	Uploads remote.Uploader
	Catalog *site.Catalog

	handles map[string]Handle
	reload  func(*memory.Dataset)
	log     *slog.Logger
}

// Open builds the backend cfg asks for: the remote API, or the in-memory
// demo data set when no API is configured.
func Open(cfg *config.Config, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.UseDemo() {
		return openDemo(cfg, log)
	}
	return openRemote(cfg, log)
}

func openRemote(cfg *config.Config, log *slog.Logger) (*Backend, error) {
	h, err := remote.New(remote.Options{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		SessionCookie:     cfg.API.SessionCookie,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		UserAgent:         cfg.API.UserAgent,
		Logger:            log,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to set up api client: %w", err)
	}
	log.Info("using remote api", "url", cfg.API.BaseURL)

	b := &Backend{
		Uploads: remote.NewImageUploader(h, cfg.Upload.Endpoint),
		handles: map[string]Handle{},
		log:     log,
	}
	products := client(h, entity.Products)
	posts := client(h, entity.Posts)
	cases := client(h, entity.CaseStudies)

	b.add(newHandle(entity.Products, products, log))
	b.add(newHandle(entity.Categories, client(h, entity.Categories), log))
	b.add(newHandle(entity.Posts, posts, log))
	b.add(newHandle(entity.CaseStudies, cases, log))
	b.add(newHandle(entity.Leads, client(h, entity.Leads), log))
	b.add(newHandle(entity.Inquiries, client(h, entity.Inquiries), log))
	b.add(newHandle(entity.MediaLibrary, client(h, entity.MediaLibrary), log))
	b.add(newHandle(entity.Users, client(h, entity.Users), log))
	b.add(newHandle(entity.Settings, client(h, entity.Settings), log))

	b.Catalog = site.New(products, posts, cases, cfg.Site.CacheTTL, log)
	return b, nil
}

func client[T v1.Item](h *remote.HTTP, k entity.Kind[T]) *remote.Client[T] {
	return remote.NewClient[T](h, k.Endpoint, k.FilterField)
}

func openDemo(cfg *config.Config, log *slog.Logger) (*Backend, error) {
	var (
		ds  *memory.Dataset
		err error
	)
	if cfg.Demo.DataFile != "" {
		ds, err = memory.LoadFile(cfg.Demo.DataFile)
	} else {
		ds, err = memory.Demo()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load demo data: %w", err)
	}
	log.Info("using demo data", "file", cfg.Demo.DataFile, "latency", cfg.Demo.Latency)
	return NewDemo(ds, log, memory.WithLatency(cfg.Demo.Latency)), nil
}

// NewDemo serves every section from ds, in memory
func NewDemo(ds *memory.Dataset, log *slog.Logger, opts ...memory.Option) *Backend {
	if log == nil {
		log = slog.Default()
	}
	opts = append([]memory.Option{memory.WithLogger(log)}, opts...)

	b := &Backend{Demo: true, handles: map[string]Handle{}, log: log}
	products := demo(entity.Products, ds.Products, opts)
	categories := demo(entity.Categories, ds.Categories, opts)
	posts := demo(entity.Posts, ds.Posts, opts)
	cases := demo(entity.CaseStudies, ds.CaseStudies, opts)
	leads := demo(entity.Leads, ds.Leads, opts)
	inquiries := demo(entity.Inquiries, ds.Inquiries, opts)
	media := demo(entity.MediaLibrary, ds.Media, opts)
	users := demo(entity.Users, ds.Users, opts)
	settings := demo(entity.Settings, ds.Settings, opts)

	b.add(newHandle(entity.Products, products, log))
	b.add(newHandle(entity.Categories, categories, log))
	b.add(newHandle(entity.Posts, posts, log))
	b.add(newHandle(entity.CaseStudies, cases, log))
	b.add(newHandle(entity.Leads, leads, log))
	b.add(newHandle(entity.Inquiries, inquiries, log))
	b.add(newHandle(entity.MediaLibrary, media, log))
	b.add(newHandle(entity.Users, users, log))
	b.add(newHandle(entity.Settings, settings, log))

	b.Uploads = memory.NewUploads(media)
	// cached lookups live as long as the process
	b.Catalog = site.New(products, posts, cases, 0, log)

	b.reload = func(ds *memory.Dataset) {
		products.Reset(ds.Products)
		categories.Reset(ds.Categories)
		posts.Reset(ds.Posts)
		cases.Reset(ds.CaseStudies)
		leads.Reset(ds.Leads)
		inquiries.Reset(ds.Inquiries)
		media.Reset(ds.Media)
		users.Reset(ds.Users)
		settings.Reset(ds.Settings)
		b.Catalog.Forget()
	}
	return b
}

// Watch swaps the demo records for the contents of path whenever the file
// changes. Sections pick the new records up on their next fetch.
func (b *Backend) Watch(ctx context.Context, path string) error {
	if b.reload == nil {
		return errors.New("only demo data can be reloaded")
	}
	return memory.Watch(ctx, path, b.log, b.reload)
}

func demo[T v1.Item](k entity.Kind[T], items []T, opts []memory.Option) *memory.Collection[T] {
	return memory.NewCollection(k.Name, items, k.FilterField, opts...)
}

func (b *Backend) add(h Handle) {
	b.handles[h.Key()] = h
}

// Handle returns the collection behind the section called name
func (b *Backend) Handle(name string) (Handle, error) {
	h, ok := b.handles[name]
	if !ok {
		return nil, fmt.Errorf("unknown section %q, expected one of %s", name, strings.Join(b.Names(), ", "))
	}
	return h, nil
}

// Names lists the sections in the order the admin shows them
func (b *Backend) Names() []string {
	out := make([]string, 0, len(b.handles))
	for _, n := range entity.Names {
		if _, ok := b.handles[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
