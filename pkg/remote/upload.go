package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Uploaded describes an image stored by the upload endpoint
type Uploaded struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
}

// Uploader stores a file remotely
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (Uploaded, error)
}

// ImageUploader posts files as the multipart field "image"
type ImageUploader struct {
	http     *HTTP
	endpoint string
}

func NewImageUploader(h *HTTP, endpoint string) *ImageUploader {
	return &ImageUploader{http: h, endpoint: endpoint}
}

func (u *ImageUploader) Upload(ctx context.Context, filename string, r io.Reader) (Uploaded, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return Uploaded{}, &FetchError{Message: fmt.Sprintf("unable to build upload: %s", err), Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return Uploaded{}, &FetchError{Message: fmt.Sprintf("unable to read %s: %s", filename, err), Err: err}
	}
	if err := w.Close(); err != nil {
		return Uploaded{}, &FetchError{Message: fmt.Sprintf("unable to build upload: %s", err), Err: err}
	}

	b, err := u.http.Do(ctx, http.MethodPost, u.endpoint, nil, &body, w.FormDataContentType())
	if err != nil {
		return Uploaded{}, err
	}

	res := gjson.ParseBytes(b)
	out := Uploaded{
		URL:      res.Get("url").String(),
		PublicID: res.Get("publicId").String(),
		Width:    int(res.Get("width").Int()),
		Height:   int(res.Get("height").Int()),
		Format:   res.Get("format").String(),
	}
	if out.URL == "" {
		return Uploaded{}, &FetchError{Status: http.StatusOK, Message: "upload response has no url"}
	}
	return out, nil
}
