package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productSchema = Schema{
	Empty: func() v1.Fields {
		return v1.Fields{"name": "", "slug": "", "price": 0.0, "status": "draft", "tags": []string{}, "images": []v1.Image{}}
	},
	Editable:    []string{"name", "slug", "price", "status", "tags"},
	Required:    []string{"name", "slug"},
	ReadOnly:    []string{"id", "createdAt"},
	SlugField:   "slug",
	SlugSource:  "name",
	TagFields:   []string{"tags"},
	Numbers:     []string{"price"},
	Choices:     map[string][]string{"status": {"draft", "published", "archived"}},
	ImageField:  "images",
	ImageList:   true,
	Attachments: true,
}

type call struct {
	op      string
	id      string
	payload v1.Fields
	images  []v1.Image
}

type recorder struct {
	remote.Collection[v1.Product]

	calls     []call
	createErr error
	updateErr error
	syncErr   error
}

func (r *recorder) Create(_ context.Context, p v1.Fields) (v1.Product, error) {
	r.calls = append(r.calls, call{op: "create", payload: p})
	if r.createErr != nil {
		return v1.Product{}, r.createErr
	}
	out, err := v1.Decode[v1.Product](p)
	out.ID = "new-1"
	return out, err
}

func (r *recorder) Update(_ context.Context, id string, p v1.Fields) (v1.Product, error) {
	r.calls = append(r.calls, call{op: "update", id: id, payload: p})
	if r.updateErr != nil {
		return v1.Product{}, r.updateErr
	}
	out, err := v1.Decode[v1.Product](p)
	out.ID = id
	return out, err
}

func (r *recorder) SyncImages(_ context.Context, id string, images []v1.Image) error {
	r.calls = append(r.calls, call{op: "images", id: id, images: images})
	return r.syncErr
}

func TestSlugFollowsNameUntilEditedByHand(t *testing.T) {
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	s.OpenCreate()

	s.SetField("name", "Stella 32 Sport")
	assert.Equal(t, "stella-32-sport", s.Text("slug"))

	s.SetField("slug", "custom-slug")
	s.SetField("name", "Something Else")
	assert.Equal(t, "custom-slug", s.Text("slug"))
}

func TestSlugIsNotDerivedWhileEditing(t *testing.T) {
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	require.NoError(t, s.OpenEdit(v1.Product{ID: "7", Name: "Stella", Slug: "stella"}))

	s.SetField("name", "Stella Mk II")
	assert.Equal(t, "stella", s.Text("slug"))
}

func TestHandEditedSlugIsSlugifiedOnBlur(t *testing.T) {
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	s.OpenCreate()
	s.SetField("slug", "My Custom Slug")
	assert.Equal(t, "My Custom Slug", s.Text("slug"))

	s.Blur("slug")
	assert.Equal(t, "my-custom-slug", s.Text("slug"))
}

func TestTagsParsedOnBlurOnly(t *testing.T) {
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	s.OpenCreate()

	s.SetField("tags", "sail, cruiser,, Sail ")
	assert.Equal(t, "sail, cruiser,, Sail ", s.Fields()["tags"], "typing keeps the raw text")

	s.Blur("tags")
	assert.Equal(t, []string{"sail", "cruiser"}, s.Fields()["tags"])
}

func TestEditDoesNotAliasItem(t *testing.T) {
	item := v1.Product{
		ID:     "7",
		Name:   "Stella",
		Tags:   []string{"sail"},
		Specs:  []v1.Spec{{Label: "Length", Value: "9.8 m"}},
		Images: []v1.Image{{URL: "https://img/a.jpg"}},
	}
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	require.NoError(t, s.OpenEdit(item))

	s.SetField("tags", "changed")
	require.NoError(t, s.Attach(v1.Image{URL: "https://img/b.jpg"}))
	f := s.Fields()
	f["specs"].([]any)[0].(map[string]any)["value"] = "tampered"

	assert.Equal(t, []string{"sail"}, item.Tags)
	assert.Len(t, item.Images, 1)
	assert.Equal(t, "9.8 m", item.Specs[0].Value)
	assert.Len(t, s.Images(), 2)
}

func TestValidationStopsBeforeNetwork(t *testing.T) {
	rec := &recorder{}
	s := NewSession[v1.Product](productSchema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "   ")
	s.SetField("price", "twelve")

	_, err := s.Commit(context.Background())
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Field("name"))
	assert.NotEmpty(t, ve.Field("slug"))
	assert.NotEmpty(t, ve.Field("price"))
	assert.Empty(t, rec.calls)
	assert.True(t, s.Open(), "the form stays open with its input")
	assert.Equal(t, "twelve", s.Text("price"))
}

func TestCreateThenSyncImages(t *testing.T) {
	rec := &recorder{}
	s := NewSession[v1.Product](productSchema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "Stella 32")
	s.SetField("price", "1,250.50")
	s.SetField("tags", "sail, cruiser")
	require.NoError(t, s.Attach(v1.Image{URL: "https://img/a.jpg", PublicID: "a"}))

	item, err := s.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.calls, 2)
	create := rec.calls[0]
	assert.Equal(t, "create", create.op)
	assert.Equal(t, "stella-32", create.payload["slug"])
	assert.Equal(t, 1250.5, create.payload["price"])
	assert.Equal(t, []string{"sail", "cruiser"}, create.payload["tags"])
	assert.NotContains(t, create.payload, "images", "images go in the second request")

	assert.Equal(t, "images", rec.calls[1].op)
	assert.Equal(t, "new-1", rec.calls[1].id)
	assert.Equal(t, []v1.Image{{URL: "https://img/a.jpg", PublicID: "a"}}, rec.calls[1].images)

	assert.Equal(t, "new-1", item.ID)
	assert.Len(t, item.Images, 1)
	assert.False(t, s.Open())
}

func TestImageSyncFailureKeepsRecord(t *testing.T) {
	rec := &recorder{syncErr: &remote.FetchError{Status: 502, Message: "bad gateway"}}
	s := NewSession[v1.Product](productSchema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "Stella")

	_, err := s.Commit(context.Background())
	var ase *AttachmentSyncError
	require.True(t, errors.As(err, &ase))
	assert.Equal(t, "new-1", ase.ID)
	assert.Equal(t, "Stella", ase.Item.Label())
	assert.Equal(t, "bad gateway", remote.Message(err, ""))

	assert.True(t, s.Open())
	assert.Equal(t, Editing, s.Mode())
	assert.Equal(t, "new-1", s.EditingID())

	rec.syncErr = nil
	_, err = s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "update", rec.calls[2].op, "the retry updates the saved record")
}

func TestFetchErrorKeepsDraftOpen(t *testing.T) {
	rec := &recorder{createErr: &remote.FetchError{Status: 409, Message: "slug already taken"}}
	s := NewSession[v1.Product](productSchema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "Stella")

	_, err := s.Commit(context.Background())
	require.Error(t, err)
	assert.True(t, s.Open())
	assert.Equal(t, Creating, s.Mode())
	assert.Equal(t, err, s.Err())
	assert.Len(t, rec.calls, 1, "no image sync after a failed create")
}

func TestFailedUpdateKeepsReadOnlyFields(t *testing.T) {
	created := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	rec := &recorder{updateErr: &remote.FetchError{Status: 500, Message: "boom"}}
	s := NewSession[v1.Product](productSchema, rec, nil)
	require.NoError(t, s.OpenEdit(v1.Product{ID: "7", Name: "Stella", Slug: "stella", CreatedAt: created}))

	_, err := s.Commit(context.Background())
	require.Error(t, err)
	require.Len(t, rec.calls, 1)
	assert.NotContains(t, rec.calls[0].payload, "id")
	assert.NotContains(t, rec.calls[0].payload, "createdAt")

	assert.Equal(t, "7", s.Text("id"))
	assert.Contains(t, s.Fields(), "createdAt")
	assert.NotEmpty(t, s.Text("createdAt"))
}

func TestCancelledDraftIgnoresLateSave(t *testing.T) {
	rec := &recorder{}
	s := NewSession[v1.Product](productSchema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "Stella")

	c, err := s.Prepare()
	require.NoError(t, err)
	_, err = s.Prepare()
	assert.ErrorIs(t, err, ErrInFlight)

	s.Cancel()
	_, err = s.Finish(c.Run(context.Background()))
	assert.ErrorIs(t, err, ErrDiscarded)
	assert.False(t, s.Open())
}

func TestSingleImageField(t *testing.T) {
	schema := Schema{
		Empty:      func() v1.Fields { return v1.Fields{"name": "", "avatar": ""} },
		Required:   []string{"name", "email"},
		Emails:     []string{"email"},
		ImageField: "avatar",
	}
	rec := &userRecorder{}
	s := NewSession[v1.User](schema, rec, nil)
	s.OpenCreate()
	s.SetField("name", "Ines")
	s.SetField("email", "not-an-email")
	require.NoError(t, s.Attach(v1.Image{URL: "https://img/1.png"}))
	require.NoError(t, s.Attach(v1.Image{URL: "https://img/2.png"}))

	_, err := s.Commit(context.Background())
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Field("email"))

	s.SetField("email", "ines@example.com")
	_, err = s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://img/2.png", rec.payload["avatar"], "avatar travels with the record")
}

type userRecorder struct {
	remote.Collection[v1.User]
	payload v1.Fields
}

func (r *userRecorder) Create(_ context.Context, p v1.Fields) (v1.User, error) {
	r.payload = p
	return v1.User{ID: "u1", Name: p.Text("name")}, nil
}

func TestCommitWithoutOpenSession(t *testing.T) {
	s := NewSession[v1.Product](productSchema, &recorder{}, nil)
	_, err := s.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, s.Attach(v1.Image{URL: "x"}), ErrNotOpen)
}
