package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Uploads keeps uploaded files in memory and, when given a media
// collection, records each one in the library like the API does.
type Uploads struct {
	*sync.Mutex

	files map[string][]byte
	media *Collection[v1.Media]
	now   func() time.Time
}

func NewUploads(media *Collection[v1.Media]) *Uploads {
	return &Uploads{Mutex: &sync.Mutex{}, files: map[string][]byte{}, media: media, now: time.Now}
}

func (u *Uploads) Upload(ctx context.Context, filename string, r io.Reader) (remote.Uploaded, error) {
	if err := ctx.Err(); err != nil {
		return remote.Uploaded{}, &remote.FetchError{Message: "request cancelled", Err: err}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return remote.Uploaded{}, &remote.FetchError{Message: fmt.Sprintf("unable to read %s", filename), Err: err}
	}

	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return remote.Uploaded{}, &remote.FetchError{Status: http.StatusUnsupportedMediaType, Message: "file is not a readable image", Err: err}
	}
	format := ""
	if f, err := imaging.FormatFromFilename(filename); err == nil {
		format = strings.ToLower(f.String())
	}

	id := uuid.NewString()
	out := remote.Uploaded{
		URL:      fmt.Sprintf("memory://uploads/%s/%s", id, filename),
		PublicID: "uploads/" + id,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Format:   format,
	}

	u.Lock()
	u.files[out.PublicID] = b
	u.Unlock()

	if u.media != nil {
		u.media.Put(v1.Media{
			ID:        id,
			URL:       out.URL,
			PublicID:  out.PublicID,
			Filename:  filename,
			Format:    out.Format,
			Width:     out.Width,
			Height:    out.Height,
			CreatedAt: u.now(),
		})
	}
	return out, nil
}

// Bytes returns the content stored under publicID
func (u *Uploads) Bytes(publicID string) ([]byte, bool) {
	u.Lock()
	defer u.Unlock()
	b, ok := u.files[publicID]
	return b, ok
}
