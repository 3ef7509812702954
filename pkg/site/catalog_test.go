package site

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/byxorna/shipwright/pkg/db/memory"
	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGets wraps a collection and counts lookups
type countingGets[T v1.Item] struct {
	remote.Collection[T]
	gets int
}

func (c *countingGets[T]) Get(ctx context.Context, idOrSlug string) (T, error) {
	c.gets++
	return c.Collection.Get(ctx, idOrSlug)
}

func newCatalog(t *testing.T) (*Catalog, *countingGets[v1.Product]) {
	t.Helper()
	ds, err := memory.Demo()
	require.NoError(t, err)
	products := &countingGets[v1.Product]{Collection: memory.NewCollection("products", ds.Products, "category")}
	return New(
		products,
		memory.NewCollection("posts", ds.Posts, "status"),
		memory.NewCollection("cases", ds.CaseStudies, "status"),
		time.Minute, nil,
	), products
}

func TestOnlyPublishedRecordsAreListed(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	products, err := c.Products(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 4)
	for _, p := range products {
		assert.Equal(t, v1.StatusPublished, p.Status)
	}

	sail, err := c.Products(ctx, "sailboats")
	require.NoError(t, err)
	assert.Len(t, sail, 1, "the other sailboats are draft or archived")

	posts, err := c.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	cases, err := c.CaseStudies(ctx)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestSlugLookupIsCached(t *testing.T) {
	c, products := newCatalog(t)
	ctx := context.Background()

	p, err := c.Product(ctx, "stella-32-sport")
	require.NoError(t, err)
	assert.Equal(t, "p-stella-32", p.ID)

	_, err = c.Product(ctx, "stella-32-sport")
	require.NoError(t, err)
	assert.Equal(t, 1, products.gets)

	c.Forget()
	_, err = c.Product(ctx, "stella-32-sport")
	require.NoError(t, err)
	assert.Equal(t, 2, products.gets)
}

func TestDraftsAreNotFound(t *testing.T) {
	c, _ := newCatalog(t)
	_, err := c.Product(context.Background(), "nordkap-40")
	assert.True(t, remote.IsNotFound(err))

	_, err = c.Post(context.Background(), "winter-storage-checklist")
	assert.True(t, remote.IsNotFound(err))
}

func TestProductMarkdown(t *testing.T) {
	md := ProductMarkdown(v1.Product{
		Name:     "Stella 32",
		Price:    189000,
		Category: "sailboats",
		Specs:    []v1.Spec{{Label: "Length", Value: "9.8 m"}},
	})
	assert.Contains(t, md, "# Stella 32")
	assert.Contains(t, md, "€189,000")
	assert.Contains(t, md, "| Length | 9.8 m |")

	out, err := Render(md, 60)
	require.NoError(t, err)
	// glamour styles each word on its own
	assert.Contains(t, sgr.ReplaceAllString(out, ""), "Stella 32")
}

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")
