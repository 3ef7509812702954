// Package site is the read only view the public website gets of the admin
// collections: published records only, with slug lookups cached.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/patrickmn/go-cache"
)

// scanPageSize is how many records are read per request while collecting
// every published record of a collection
const scanPageSize = 50

type Catalog struct {
	products remote.Collection[v1.Product]
	posts    remote.Collection[v1.Post]
	cases    remote.Collection[v1.CaseStudy]

	cache *cache.Cache
	log   *slog.Logger
}

func New(products remote.Collection[v1.Product], posts remote.Collection[v1.Post], cases remote.Collection[v1.CaseStudy], ttl time.Duration, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Catalog{
		products: products,
		posts:    posts,
		cases:    cases,
		cache:    cache.New(ttl, 2*ttl),
		log:      log.With("component", "site"),
	}
}

// Products lists published products, optionally of one category
func (c *Catalog) Products(ctx context.Context, category string) ([]v1.Product, error) {
	return published(ctx, c.products, category, func(p v1.Product) bool {
		return p.Status == v1.StatusPublished
	})
}

func (c *Catalog) Posts(ctx context.Context) ([]v1.Post, error) {
	return published(ctx, c.posts, string(v1.StatusPublished), func(p v1.Post) bool {
		return p.Status == v1.StatusPublished
	})
}

func (c *Catalog) CaseStudies(ctx context.Context) ([]v1.CaseStudy, error) {
	return published(ctx, c.cases, string(v1.StatusPublished), func(cs v1.CaseStudy) bool {
		return cs.Status == v1.StatusPublished
	})
}

func (c *Catalog) Product(ctx context.Context, slug string) (v1.Product, error) {
	return lookup(ctx, c, "products", slug, c.products, func(p v1.Product) bool {
		return p.Status == v1.StatusPublished
	})
}

func (c *Catalog) Post(ctx context.Context, slug string) (v1.Post, error) {
	return lookup(ctx, c, "posts", slug, c.posts, func(p v1.Post) bool {
		return p.Status == v1.StatusPublished
	})
}

func (c *Catalog) CaseStudy(ctx context.Context, slug string) (v1.CaseStudy, error) {
	return lookup(ctx, c, "cases", slug, c.cases, func(cs v1.CaseStudy) bool {
		return cs.Status == v1.StatusPublished
	})
}

// Forget drops every cached lookup, e.g. after an admin edit
func (c *Catalog) Forget() {
	c.cache.Flush()
}

func lookup[T v1.Item](ctx context.Context, c *Catalog, kind, slug string, coll remote.Collection[T], visible func(T) bool) (T, error) {
	var zero T
	key := kind + "/" + slug
	if v, ok := c.cache.Get(key); ok {
		c.log.Debug("cache hit", "key", key)
		return v.(T), nil
	}

	item, err := coll.Get(ctx, slug)
	if err != nil {
		return zero, err
	}
	if !visible(item) {
		// drafts do not exist as far as the public is concerned
		return zero, &remote.FetchError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", kind, slug)}
	}
	c.cache.SetDefault(key, item)
	return item, nil
}

func published[T v1.Item](ctx context.Context, coll remote.Collection[T], filter string, keep func(T) bool) ([]T, error) {
	out := []T{}
	for page := 1; ; page++ {
		res, err := coll.List(ctx, remote.Query{Filter: filter, Page: page, PageSize: scanPageSize})
		if err != nil {
			return nil, err
		}
		for _, item := range res.Items {
			if keep(item) {
				out = append(out, item)
			}
		}
		if len(res.Items) < scanPageSize || page*scanPageSize >= res.Total {
			return out, nil
		}
	}
}

// ProductMarkdown lays a product page out as markdown
func ProductMarkdown(p v1.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Price > 0 {
		fmt.Fprintf(&b, "**€%s**", humanize.CommafWithDigits(p.Price, 2))
		if p.Category != "" {
			fmt.Fprintf(&b, " · %s", p.Category)
		}
		b.WriteString("\n\n")
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, "_%s_\n\n", p.Summary)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	if len(p.Specs) > 0 {
		b.WriteString("| | |\n|---|---|\n")
		for _, s := range p.Specs {
			fmt.Fprintf(&b, "| %s | %s |\n", s.Label, s.Value)
		}
		b.WriteString("\n")
	}
	for _, img := range p.Images {
		fmt.Fprintf(&b, "![%s](%s)\n", img.Alt, img.URL)
	}
	return b.String()
}

// Render formats markdown for a terminal of the given width
func Render(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
