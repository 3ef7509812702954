package draft

import (
	"context"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// Commit is a validated save. Run sends the record first and, for kinds
// with attachments, the image list second.
type Commit[T v1.Item] struct {
	Gen     uint64
	ID      string
	Payload v1.Fields

	ImageField string
	Images     []v1.Image

	coll remote.Collection[T]
}

// Committed is the outcome of a Commit, to be handed to Session.Finish
type Committed[T v1.Item] struct {
	Gen     uint64
	Item    T
	Created bool
	Err     error
}

func (c Commit[T]) Creates() bool { return c.ID == "" }

func (c Commit[T]) Run(ctx context.Context) Committed[T] {
	res := Committed[T]{Gen: c.Gen, Created: c.Creates()}

	var err error
	if c.Creates() {
		res.Item, err = c.coll.Create(ctx, c.Payload)
	} else {
		res.Item, err = c.coll.Update(ctx, c.ID, c.Payload)
	}
	if err != nil {
		res.Err = err
		return res
	}
	if c.ImageField == "" {
		return res
	}

	id := res.Item.Identifier()
	if err := c.coll.SyncImages(ctx, id, c.Images); err != nil {
		res.Err = &AttachmentSyncError{ID: id, Item: res.Item, Err: err}
		return res
	}

	// the record came back before its images were set
	if f, err := v1.FieldsOf(res.Item); err == nil {
		f[c.ImageField] = c.Images
		if item, err := v1.Decode[T](f); err == nil {
			res.Item = item
		}
	}
	return res
}
