package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/byxorna/shipwright/pkg/remote"
	"github.com/byxorna/shipwright/pkg/text"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Mode tells whether a session creates a new record or edits an existing one
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "new"
	case Editing:
		return "edit"
	}
	return "closed"
}

// Session is the create/edit form of one collection. It owns its fields
// outright: nothing it holds is shared with the listing it was opened from.
type Session[T v1.Item] struct {
	schema Schema
	coll   remote.Collection[T]
	log    *slog.Logger

	mode        Mode
	editingID   string
	fields      v1.Fields
	slugTouched bool
	err         error

	// gen changes on every open/cancel so a save started by an earlier
	// session is recognised when it completes
	gen      uint64
	inFlight bool
}

func NewSession[T v1.Item](schema Schema, coll remote.Collection[T], log *slog.Logger) *Session[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Session[T]{schema: schema, coll: coll, log: log}
}

// OpenCreate starts a new record from the schema defaults
func (s *Session[T]) OpenCreate() {
	s.reset(Creating, "", s.schema.empty())
}

// OpenEdit starts editing a deep copy of item
func (s *Session[T]) OpenEdit(item T) error {
	f, err := v1.FieldsOf(item)
	if err != nil {
		return fmt.Errorf("unable to edit %s: %w", item.Identifier(), err)
	}
	// keys the record leaves out still get their defaults
	for k, v := range s.schema.empty() {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
	s.reset(Editing, item.Identifier(), f)
	return nil
}

func (s *Session[T]) reset(mode Mode, id string, f v1.Fields) {
	s.gen++
	s.inFlight = false
	s.mode = mode
	s.editingID = id
	s.fields = f
	s.slugTouched = false
	s.err = nil
}

// Cancel discards the draft. A save still in flight will be ignored.
func (s *Session[T]) Cancel() {
	s.reset(Closed, "", nil)
}

func (s *Session[T]) Mode() Mode        { return s.mode }
func (s *Session[T]) Open() bool        { return s.mode != Closed }
func (s *Session[T]) EditingID() string { return s.editingID }
func (s *Session[T]) Saving() bool      { return s.inFlight }
func (s *Session[T]) Schema() Schema    { return s.schema }

// Err is the outcome of the last failed commit, for inline display
func (s *Session[T]) Err() error { return s.err }

// Fields returns a copy of the current draft
func (s *Session[T]) Fields() v1.Fields { return s.fields.Clone() }

func (s *Session[T]) Text(key string) string { return s.fields.Text(key) }

// SetField stores value under key exactly as typed. Editing the slug source
// while creating re-derives the slug, unless the slug was edited by hand.
func (s *Session[T]) SetField(key string, value any) {
	if !s.Open() {
		return
	}
	s.fields[key] = value

	if !s.schema.HasSlug() {
		return
	}
	switch key {
	case s.schema.SlugField:
		s.slugTouched = true
	case s.schema.SlugSource:
		if s.mode == Creating && !s.slugTouched {
			s.fields[s.schema.SlugField] = text.Slugify(s.fields.Text(key))
		}
	}
}

// Blur tidies key once the user leaves it: tag text becomes a list and a
// hand edited slug is slugified.
func (s *Session[T]) Blur(key string) {
	if !s.Open() {
		return
	}
	switch {
	case s.schema.IsTagField(key):
		s.fields[key] = tagsOf(s.fields[key])
	case key == s.schema.SlugField && s.schema.SlugField != "":
		s.fields[key] = text.Slugify(s.fields.Text(key))
	}
}

// Attach merges a confirmed upload into the image field
func (s *Session[T]) Attach(img v1.Image) error {
	if !s.Open() {
		return ErrNotOpen
	}
	key := s.schema.ImageField
	if key == "" {
		return ErrNoImages
	}
	if !s.schema.ImageList {
		s.fields[key] = img.URL
		if s.schema.ImageIDField != "" {
			s.fields[s.schema.ImageIDField] = img.PublicID
		}
		return nil
	}
	images := s.fields.Images(key)
	for _, existing := range images {
		if existing.URL == img.URL {
			return nil
		}
	}
	s.fields[key] = append(images, img)
	return nil
}

// Images returns the images currently on the draft
func (s *Session[T]) Images() []v1.Image {
	key := s.schema.ImageField
	if key == "" {
		return nil
	}
	if s.schema.ImageList {
		return s.fields.Images(key)
	}
	if url := s.fields.Text(key); url != "" {
		return []v1.Image{{URL: url}}
	}
	return nil
}

// RemoveImage drops the i-th image of a list image field
func (s *Session[T]) RemoveImage(i int) {
	if !s.Open() || !s.schema.ImageList {
		return
	}
	images := s.fields.Images(s.schema.ImageField)
	if i < 0 || i >= len(images) {
		return
	}
	s.fields[s.schema.ImageField] = append(images[:i], images[i+1:]...)
}

// Prepare validates the draft and returns the save to run. Nothing is sent
// when validation fails.
func (s *Session[T]) Prepare() (Commit[T], error) {
	if !s.Open() {
		return Commit[T]{}, ErrNotOpen
	}
	if s.inFlight {
		return Commit[T]{}, ErrInFlight
	}

	payload := s.fields.Clone()
	invalid := s.schema.normalize(payload)
	if err := s.schema.validate(payload); err != nil {
		var ve validation.Errors
		if !errors.As(err, &ve) {
			return Commit[T]{}, err
		}
		if invalid == nil {
			invalid = validation.Errors{}
		}
		for k, e := range ve {
			if _, ok := invalid[k]; !ok {
				invalid[k] = e
			}
		}
	}
	if len(invalid) > 0 {
		s.err = &ValidationError{Errors: invalid}
		return Commit[T]{}, s.err
	}

	// the typed values are what the user sees from here on, read only ones
	// included
	s.fields = payload.Clone()

	for _, k := range s.schema.ReadOnly {
		delete(payload, k)
	}

	c := Commit[T]{Gen: s.gen, ID: s.editingID, Payload: payload, coll: s.coll}
	if s.schema.Attachments && s.schema.ImageField != "" {
		c.Images = payload.Images(s.schema.ImageField)
		c.ImageField = s.schema.ImageField
		delete(payload, s.schema.ImageField)
		s.fields[c.ImageField] = append([]v1.Image(nil), c.Images...)
	}
	s.inFlight = true
	s.err = nil
	return c, nil
}

// Finish applies the outcome of a save. On success the session closes and
// the saved record is returned; on failure the draft stays open with its
// input intact.
func (s *Session[T]) Finish(res Committed[T]) (T, error) {
	var zero T
	if res.Gen != s.gen || !s.Open() {
		s.log.Debug("ignoring save of a closed draft", "gen", res.Gen, "current", s.gen)
		return zero, ErrDiscarded
	}
	s.inFlight = false

	if res.Err != nil {
		s.err = res.Err
		var ase *AttachmentSyncError
		if errors.As(res.Err, &ase) {
			// the record exists now; retrying must update it
			s.mode = Editing
			s.editingID = ase.ID
		}
		s.log.Warn("save failed", "id", s.editingID, "error", res.Err)
		return zero, res.Err
	}

	s.log.Info("saved", "id", res.Item.Identifier(), "created", res.Created)
	s.reset(Closed, "", nil)
	return res.Item, nil
}

// Commit validates, saves and finishes in one blocking call
func (s *Session[T]) Commit(ctx context.Context) (T, error) {
	c, err := s.Prepare()
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Finish(c.Run(ctx))
}
