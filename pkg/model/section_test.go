package model

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/byxorna/shipwright/pkg/db/memory"
	"github.com/byxorna/shipwright/pkg/draft"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/listing"
	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/byxorna/shipwright/pkg/upload"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	o := DefaultOptions()
	o.PageSize = 4
	o.StatusTimeout = 0
	o.Static = true
	return o
}

type fixture struct {
	products *memory.Collection[v1.Product]
	media    *memory.Collection[v1.Media]
	uploads  *memory.Uploads
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ds, err := memory.Demo()
	require.NoError(t, err)
	media := memory.NewCollection("media", ds.Media, "format")
	return fixture{
		products: memory.NewCollection("products", ds.Products, "category"),
		media:    media,
		uploads:  memory.NewUploads(media),
	}
}

func (f fixture) section(t *testing.T) (Section, *section[v1.Product]) {
	t.Helper()
	sec := New[v1.Product](entity.Products, f.products, f.uploads, testOptions())
	sec.SetSize(100, 40)
	sec = drain(t, sec, sec.Init())
	return sec, sec.(*section[v1.Product])
}

// drain runs cmd and feeds whatever it produces back into sec until the
// section stops asking for work.
func drain(t *testing.T, sec Section, cmd tea.Cmd) Section {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0; n++ {
		require.Less(t, n, 200, "commands never settled")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var c tea.Cmd
			sec, c = sec.Update(msg)
			queue = append(queue, c)
		}
	}
	return sec
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, sec Section, keys ...string) Section {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		sec, cmd = sec.Update(keyPress(k))
		sec = drain(t, sec, cmd)
	}
	return sec
}

func labels[T v1.Item](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label()
	}
	return out
}

func TestSectionLoadsFirstPage(t *testing.T) {
	sec, s := newFixture(t).section(t)

	assert.Equal(t, listing.Ready, s.list.Status())
	assert.Equal(t, 6, s.list.Total())
	assert.Equal(t, []string{"Nordkap 40", "Harbour Launch 24", "Stella 32 Sport", "Yard Skiff 12"}, labels(s.list.Items()))
	assert.Equal(t, "6 records", sec.Description())
	assert.False(t, sec.Capturing())

	view := sec.View()
	assert.Contains(t, view, "Nordkap 40")
	assert.Contains(t, view, "sort: -createdAt")
}

func TestSectionPaging(t *testing.T) {
	sec, s := newFixture(t).section(t)

	sec = press(t, sec, "l")
	assert.Equal(t, 2, s.list.Page())
	assert.Equal(t, []string{"Teak Cockpit Grating", "Pilot Cutter 28"}, labels(s.list.Items()))

	sec = press(t, sec, "l")
	assert.Equal(t, 2, s.list.Page(), "already on the last page")

	sec = press(t, sec, "g")
	assert.Equal(t, 1, s.list.Page())

	// running off the bottom of a page turns it
	sec = press(t, sec, "j", "j", "j")
	assert.Equal(t, 3, s.cursor)
	press(t, sec, "j")
	assert.Equal(t, 2, s.list.Page())
	assert.Equal(t, 0, s.cursor)
}

func TestSectionSearch(t *testing.T) {
	sec, s := newFixture(t).section(t)

	sec = press(t, sec, "/", "stella")
	assert.Equal(t, sectionSearching, s.state)
	assert.Equal(t, "stella", s.list.Query().Search)
	assert.Equal(t, []string{"Stella 32 Sport"}, labels(s.list.Items()))

	sec = press(t, sec, "enter")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.True(t, sec.Capturing(), "esc clears the search before leaving the section")

	sec = press(t, sec, "esc")
	assert.Empty(t, s.list.Query().Search)
	assert.Equal(t, 6, s.list.Total())
	assert.False(t, sec.Capturing())
}

func TestSectionFilterCycles(t *testing.T) {
	sec, s := newFixture(t).section(t)

	sec = press(t, sec, "f")
	assert.Equal(t, "sailboats", s.list.Query().Filter)
	assert.Equal(t, 3, s.list.Total())
	assert.Contains(t, sec.View(), "category: sailboats")

	press(t, sec, "f", "f", "f", "f")
	assert.Empty(t, s.list.Query().Filter)
	assert.Equal(t, 6, s.list.Total())
}

func TestSectionDeleteAsksFirst(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	sec = press(t, sec, "x")
	assert.Equal(t, sectionConfirmingDelete, s.state)
	assert.Contains(t, sec.View(), "Delete “Nordkap 40”?")

	sec = press(t, sec, "n")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.Len(t, f.products.All(), 6)

	press(t, sec, "x", "y")
	assert.Len(t, f.products.All(), 5)
	assert.Equal(t, 5, s.list.Total())
	assert.NotContains(t, labels(s.list.Items()), "Nordkap 40")
	assert.Equal(t, "Deleted", s.statusMessage.message)
}

func TestSectionCreate(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	sec = press(t, sec, "n")
	require.Equal(t, sectionEditing, s.state)
	assert.True(t, sec.Capturing())
	assert.Equal(t, "name", s.form.focused())

	sec = press(t, sec, "Sea Otter 18")
	assert.Equal(t, "sea-otter-18", s.form.inputs[1].Value(), "slug follows the name")

	sec = press(t, sec, "tab", "tab", "ctrl+o")
	assert.Equal(t, "category", s.form.focused())
	assert.Equal(t, "sailboats", s.draft.Text("category"))

	press(t, sec, "ctrl+s")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.Equal(t, "Sea Otter 18", labels(s.list.Items())[0])
	assert.Equal(t, 7, s.list.Total())
	assert.Len(t, f.products.All(), 7)
	assert.Equal(t, "Saved “Sea Otter 18”", s.statusMessage.message)
}

func TestSectionValidationKeepsForm(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	sec = press(t, sec, "n", "ctrl+s")
	assert.Equal(t, sectionEditing, s.state)
	assert.Len(t, f.products.All(), 6)

	var ve *draft.ValidationError
	require.ErrorAs(t, s.draft.Err(), &ve)
	assert.NotEmpty(t, ve.Field("name"))
	assert.Contains(t, sec.View(), "Fix the highlighted fields")

	press(t, sec, "esc")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.False(t, s.draft.Open())
}

func TestSectionEditReplacesRow(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	sec = press(t, sec, "e")
	require.Equal(t, draft.Editing, s.draft.Mode())
	assert.Equal(t, "Nordkap 40", s.form.value())

	press(t, sec, " Mk II", "ctrl+s")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.Equal(t, "Nordkap 40 Mk II", labels(s.list.Items())[0])
	assert.Equal(t, 6, s.list.Total())

	saved, err := f.products.Get(context.Background(), "nordkap-40")
	require.NoError(t, err, "the slug is left alone while editing")
	assert.Equal(t, "Nordkap 40 Mk II", saved.Name)
}

func TestSectionRefetchesAfterSave(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	sec = press(t, sec, "f")
	require.Equal(t, "sailboats", s.list.Query().Filter)
	require.Equal(t, 3, s.list.Total())

	sec = press(t, sec, "n", "Harbour Tug 30")
	s.draft.SetField("category", "motorboats")
	press(t, sec, "ctrl+s")

	assert.Equal(t, sectionBrowsing, s.state)
	assert.Len(t, f.products.All(), 7)

	page, err := f.products.List(context.Background(), s.list.Query())
	require.NoError(t, err)
	assert.Equal(t, page.Total, s.list.Total(), "the total follows the backend")
	assert.Equal(t, 3, s.list.Total())
	assert.NotContains(t, labels(s.list.Items()), "Harbour Tug 30", "outside the active filter")
	assert.Equal(t, listing.Ready, s.list.Status())
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 60, B: uint8(x * 30), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "hull.png")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())
	return path
}

func TestSectionUploadAndAttach(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)
	mediaBefore := len(f.media.All())

	sec = press(t, sec, "n", "Sea Otter 18", "tab", "tab", "ctrl+o", "ctrl+u")
	require.Equal(t, sectionUploading, s.state)

	sec = press(t, sec, writePNG(t), "enter")
	require.Equal(t, upload.Attached, s.uploads.State())
	assert.Equal(t, 8, s.uploads.Preview().Width)
	assert.Contains(t, sec.View(), "uploaded")
	assert.Len(t, f.media.All(), mediaBefore+1, "the upload lands in the media library")

	sec = press(t, sec, "enter")
	assert.Equal(t, sectionEditing, s.state)
	require.Len(t, s.draft.Images(), 1)
	assert.Equal(t, upload.Empty, s.uploads.State())

	press(t, sec, "ctrl+s")
	require.Equal(t, sectionBrowsing, s.state)
	saved, err := f.products.Get(context.Background(), "sea-otter-18")
	require.NoError(t, err)
	assert.Len(t, saved.Images, 1)
}

func TestSectionRejectsNonImages(t *testing.T) {
	f := newFixture(t)
	sec, s := f.section(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a picture"), 0o600))

	press(t, sec, "n", "ctrl+u", path, "enter")
	assert.Equal(t, sectionUploading, s.state)
	assert.Equal(t, upload.Empty, s.uploads.State())
	assert.Equal(t, errorStatusMessage, s.statusMessage.status)
	assert.Contains(t, s.statusMessage.message, "not an image")
}

func TestSectionDropsRemovedImage(t *testing.T) {
	sec, s := newFixture(t).section(t)

	sec = press(t, sec, "n")
	require.NoError(t, s.draft.Attach(v1.Image{URL: "memory://uploads/a.png"}))
	require.NoError(t, s.draft.Attach(v1.Image{URL: "memory://uploads/b.png"}))
	assert.Contains(t, sec.View(), "a.png, b.png")

	press(t, sec, "ctrl+r")
	assert.Equal(t, []v1.Image{{URL: "memory://uploads/a.png"}}, s.draft.Images())
}

// flakyImages saves records but refuses their images until fixed
type flakyImages struct {
	*memory.Collection[v1.Product]
	broken bool
}

func (f *flakyImages) SyncImages(ctx context.Context, id string, images []v1.Image) error {
	if f.broken {
		return &remote.FetchError{Status: 502, Message: "image service unavailable"}
	}
	return f.Collection.SyncImages(ctx, id, images)
}

func TestSectionImageSyncFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	coll := &flakyImages{Collection: f.products, broken: true}
	sec := New[v1.Product](entity.Products, coll, f.uploads, testOptions())
	sec.SetSize(100, 40)
	sec = drain(t, sec, sec.Init())
	s := sec.(*section[v1.Product])

	sec = press(t, sec, "n", "Sea Otter 18", "tab", "tab", "ctrl+o")
	require.NoError(t, s.draft.Attach(v1.Image{URL: "memory://uploads/a.png"}))

	sec = press(t, sec, "ctrl+s")
	assert.Equal(t, sectionEditing, s.state, "the form stays open for a retry")
	assert.Equal(t, draft.Editing, s.draft.Mode())
	assert.Equal(t, "Sea Otter 18", labels(s.list.Items())[0], "the saved record is listed")
	assert.Contains(t, s.statusMessage.message, "image service unavailable")
	assert.Len(t, f.products.All(), 7)

	coll.broken = false
	press(t, sec, "ctrl+s")
	assert.Equal(t, sectionBrowsing, s.state)
	assert.Len(t, f.products.All(), 7, "the retry updates instead of creating")
	saved, err := f.products.Get(context.Background(), "sea-otter-18")
	require.NoError(t, err)
	assert.Len(t, saved.Images, 1)
}

func TestSectionWithoutImages(t *testing.T) {
	ds, err := memory.Demo()
	require.NoError(t, err)
	sec := New[v1.Category](entity.Categories, memory.NewCollection("categories", ds.Categories, "status"), nil, testOptions())
	sec = drain(t, sec, sec.Init())
	s := sec.(*section[v1.Category])

	press(t, sec, "n", "ctrl+u")
	assert.Equal(t, sectionEditing, s.state)
	assert.Equal(t, "Categories take no images", s.statusMessage.message)
}

func TestSectionDropsStaleResults(t *testing.T) {
	sec, s := newFixture(t).section(t)

	older := s.list.SetQuery(listing.Search("stella"))
	newer := s.list.SetQuery(listing.Search("harbour"))
	sec, _ = sec.Update(fetchedMsg[v1.Product]{key: "products", res: newer.Run(context.Background())})
	sec.Update(fetchedMsg[v1.Product]{key: "products", res: older.Run(context.Background())})

	assert.Equal(t, []string{"Harbour Launch 24"}, labels(s.list.Items()))
}

func TestSectionPreview(t *testing.T) {
	ds, err := memory.Demo()
	require.NoError(t, err)
	sec := New[v1.Post](entity.Posts, memory.NewCollection("posts", ds.Posts, "status"), nil, testOptions())
	sec.SetSize(80, 30)
	sec = drain(t, sec, sec.Init())
	s := sec.(*section[v1.Post])

	sec = press(t, sec, "p")
	assert.Equal(t, sectionPreviewing, s.state)
	assert.False(t, s.rendering)
	assert.Positive(t, s.pager.TotalLineCount())

	press(t, sec, "esc")
	assert.Equal(t, sectionBrowsing, s.state)
}

func TestTarget(t *testing.T) {
	key, ok := Target(fetchedMsg[v1.Product]{key: "products"})
	assert.True(t, ok)
	assert.Equal(t, "products", key)

	key, ok = Target(statusMessageTimeoutMsg{key: "posts"})
	assert.True(t, ok)
	assert.Equal(t, "posts", key)

	_, ok = Target(tea.KeyMsg{})
	assert.False(t, ok)
}
