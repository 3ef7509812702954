package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/byxorna/shipwright/pkg/db/memory"
	"github.com/byxorna/shipwright/pkg/model"
	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	ds, err := memory.Demo()
	require.NoError(t, err)
	return NewDemo(ds, nil)
}

func newApp(t *testing.T, names ...string) tea.Model {
	t.Helper()
	opts := model.DefaultOptions()
	opts.PageSize = 4
	opts.StatusTimeout = 0
	opts.Static = true

	a, err := New(newBackend(t), names, opts)
	require.NoError(t, err)
	a.list.StatusMessageLifetime = time.Millisecond

	var m tea.Model = *a
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return drain(t, m, m.Init())
}

// drain runs cmd and feeds its messages back into m until nothing is left.
// Quitting stops the loop like the program would.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0; n++ {
		require.Less(t, n, 500, "commands never settled")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.QuitMsg:
			return m
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var c tea.Cmd
			m, c = m.Update(msg)
			queue = append(queue, c)
		}
	}
	return m
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(keyPress(k))
		m = drain(t, m, cmd)
	}
	return m
}

func active(m tea.Model) string { return m.(Application).Active() }

func TestEverySectionLoadsInTheBackground(t *testing.T) {
	m := newApp(t, "products", "posts")
	a := m.(Application)

	require.Len(t, a.sections, 2)
	assert.Equal(t, "6 records", a.sections[0].Description())
	assert.Equal(t, "3 records", a.sections[1].Description())
	assert.Empty(t, a.Active())

	view := m.View()
	assert.Contains(t, view, "Products")
	assert.Contains(t, view, "6 records")
	assert.Contains(t, view, "(demo data)")
}

func TestOpenSectionAndGoHome(t *testing.T) {
	m := newApp(t, "products", "posts")

	m = press(t, m, "enter")
	assert.Equal(t, "products", active(m))
	assert.Contains(t, m.View(), "Nordkap 40")

	m = press(t, m, "esc")
	assert.Empty(t, active(m))

	m = press(t, m, "j", "enter")
	assert.Equal(t, "posts", active(m))
	assert.Contains(t, m.View(), "Winter storage checklist")
}

func TestSectionKeepsKeysWhileCapturing(t *testing.T) {
	m := newApp(t, "products")
	m = press(t, m, "enter", "/", "q")
	assert.Equal(t, "products", active(m), "q is typed into the search")

	// esc clears the search first, then leaves the section
	m = press(t, m, "esc")
	assert.Equal(t, "products", active(m))

	m = press(t, m, "esc")
	assert.Empty(t, active(m))
}

func TestQuit(t *testing.T) {
	m := newApp(t, "products")

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m = press(t, newApp(t, "products"), "enter")
	next, cmd := m.Update(keyPress("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Bye!\n", next.View())
}

func TestUnknownSection(t *testing.T) {
	_, err := New(newBackend(t), []string{"boats"}, model.DefaultOptions())
	assert.ErrorContains(t, err, `unknown section "boats"`)

	_, err = New(newBackend(t), nil, model.DefaultOptions())
	assert.Error(t, err)
}

func TestHandleList(t *testing.T) {
	h, err := newBackend(t).Handle("products")
	require.NoError(t, err)

	l, err := h.List(context.Background(), remote.Query{Filter: "sailboats", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, l.Total)
	assert.Equal(t, 2, l.Pages)
	assert.Equal(t, 2, l.Query.Page, "the page survives the filter")
	assert.Equal(t, "-createdAt", l.Query.Sort)
	require.Len(t, l.Rows, 1)
	assert.Equal(t, "Pilot Cutter 28", l.Rows[0].Label)
	assert.Equal(t, v1.StatusArchived, l.Rows[0].Status)

	l, err = h.List(context.Background(), remote.Query{Search: "skiff", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, l.Rows, 1)
	assert.Equal(t, "Yard Skiff 12", l.Rows[0].Label)
}

func TestHandleListClampsPage(t *testing.T) {
	h, err := newBackend(t).Handle("products")
	require.NoError(t, err)

	l, err := h.List(context.Background(), remote.Query{Page: 10, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, l.Total)
	assert.Equal(t, 3, l.Pages)
	assert.Equal(t, 3, l.Query.Page)
	assert.Len(t, l.Rows, 2)
}

func TestHandleGetAndRemove(t *testing.T) {
	ctx := context.Background()
	h, err := newBackend(t).Handle("posts")
	require.NoError(t, err)

	r, err := h.Get(ctx, "winter-storage-checklist")
	require.NoError(t, err)
	assert.Equal(t, "b-winter", r.ID)
	assert.Equal(t, v1.StatusDraft, r.Status)
	assert.NotEmpty(t, r.Markdown)

	require.NoError(t, h.Remove(ctx, r.ID))
	_, err = h.Get(ctx, r.ID)
	assert.True(t, remote.IsNotFound(err))
}

func TestHandleAttach(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	up, err := b.Uploads.Upload(ctx, "deck.png", &buf)
	require.NoError(t, err)

	products, err := b.Handle("products")
	require.NoError(t, err)
	require.True(t, products.TakesImages())
	r, err := products.Attach(ctx, "yard-skiff-12", v1.Image{URL: up.URL, PublicID: up.PublicID})
	require.NoError(t, err)

	r, err = products.Get(ctx, r.ID)
	require.NoError(t, err)
	images := r.Record.(v1.Product).Images
	require.NotEmpty(t, images)
	assert.Equal(t, up.URL, images[len(images)-1].URL)

	categories, err := b.Handle("categories")
	require.NoError(t, err)
	assert.False(t, categories.TakesImages())
	_, err = categories.Attach(ctx, "sailboats", v1.Image{URL: up.URL})
	assert.Error(t, err)
}

func TestDemoDataFileIsWatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o600))

	ds, err := memory.LoadFile(path)
	require.NoError(t, err)
	b := NewDemo(ds, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Watch(ctx, path))

	products, err := b.Handle("products")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - {id: p-1, name: Sea Otter 18, slug: sea-otter-18, category: sailboats}\n"), 0o600))

	assert.Eventually(t, func() bool {
		l, err := products.List(ctx, remote.Query{Page: 1, PageSize: 10})
		return err == nil && l.Total == 1
	}, 5*time.Second, 20*time.Millisecond)
}
