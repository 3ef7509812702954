package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneCategory = "categories:\n  - {id: c-1, name: Dinghies, slug: dinghies}\n"

func TestWatchReloadsChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneCategory), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loaded := make(chan *Dataset, 8)
	require.NoError(t, Watch(ctx, path, nil, func(ds *Dataset) { loaded <- ds }))

	// a broken save is skipped, the next good one comes through
	require.NoError(t, os.WriteFile(path, []byte("categories: [\n"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(oneCategory+"  - {id: c-2, name: Tenders, slug: tenders}\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ds := <-loaded:
			if len(ds.Categories) == 2 {
				assert.Equal(t, "Tenders", ds.Categories[1].Name)
				return
			}
		case <-deadline:
			t.Fatal("data set was never reloaded")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "gone", "demo.yaml"), nil, func(*Dataset) {})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	c := demoProducts(t)
	c.Reset(nil)
	assert.Empty(t, c.All())
}
