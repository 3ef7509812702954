package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls int
	names []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name string, r io.Reader) (remote.Uploaded, error) {
	f.calls++
	f.names = append(f.names, name)
	if _, err := io.ReadAll(r); err != nil {
		return remote.Uploaded{}, err
	}
	if f.err != nil {
		return remote.Uploaded{}, f.err
	}
	return remote.Uploaded{URL: "https://cdn/" + name, PublicID: "pid-" + name, Width: 8, Height: 4, Format: "png"}, nil
}

type attachments struct {
	images []v1.Image
}

func (a *attachments) Attach(img v1.Image) error {
	a.images = append(a.images, img)
	return nil
}

func pngFile(t *testing.T, name string, w, h int) File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return FromBytes(name, buf.Bytes())
}

func TestPickRejectsNonImages(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)

	err := s.Pick(FromBytes("notes.txt", []byte("hello there")))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, Empty, s.State())
	assert.Contains(t, s.Message(), "not an image")

	_, err = s.Start()
	assert.Error(t, err)
	assert.Zero(t, up.calls)
}

func TestPickRejectsOversizedFiles(t *testing.T) {
	f := pngFile(t, "hull.png", 4, 4)

	s := NewSession(&fakeUploader{}, WithMaxBytes(f.Size-1))
	err := s.Pick(f)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, Empty, s.State())

	s = NewSession(&fakeUploader{}, WithMaxBytes(f.Size))
	assert.NoError(t, s.Pick(f), "a file exactly at the limit is fine")
}

func TestPickPreviewsLocally(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)
	require.NoError(t, s.Pick(pngFile(t, "hull.png", 96, 24)))

	p := s.Preview()
	assert.Equal(t, Picked, s.State())
	assert.Equal(t, "image/png", p.Type)
	assert.Equal(t, 96, p.Width)
	assert.Equal(t, 24, p.Height)
	require.NotNil(t, p.Thumb)
	assert.LessOrEqual(t, p.Thumb.Bounds().Dx(), thumbSize)
	assert.Zero(t, up.calls, "no network for the preview")
}

func TestUploadAndConfirm(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)
	dst := &attachments{}

	a, err := s.Upload(context.Background(), pngFile(t, "hull.png", 2, 2))
	require.NoError(t, err)
	assert.Equal(t, Attached, s.State())
	assert.Equal(t, "https://cdn/hull.png", a.URL)
	assert.Equal(t, "pid-hull.png", a.ExternalID)
	assert.Empty(t, dst.images, "nothing is merged before confirmation")

	confirmed, err := s.Confirm(dst)
	require.NoError(t, err)
	assert.Equal(t, a, confirmed)
	assert.Equal(t, []v1.Image{{URL: "https://cdn/hull.png", PublicID: "pid-hull.png"}}, dst.images)
	assert.Equal(t, Empty, s.State())

	_, err = s.Confirm(dst)
	assert.ErrorIs(t, err, ErrNothingToConfirm)
}

func TestFailedUploadKeepsDraftUntouched(t *testing.T) {
	up := &fakeUploader{err: &remote.FetchError{Status: 413, Message: "file too large for bucket"}}
	s := NewSession(up)
	dst := &attachments{images: []v1.Image{{URL: "https://cdn/existing.png"}}}

	_, err := s.Upload(context.Background(), pngFile(t, "hull.png", 2, 2))
	require.Error(t, err)
	assert.Equal(t, Failed, s.State())
	assert.Equal(t, "file too large for bucket", s.Message())

	_, err = s.Confirm(dst)
	assert.ErrorIs(t, err, ErrNothingToConfirm)
	assert.Len(t, dst.images, 1)

	up.err = errors.New("connection reset")
	job, err := s.Start()
	require.NoError(t, err, "a failed upload can be retried")
	s.Finish(job.Run(context.Background()))
	assert.Equal(t, "upload failed", s.Message())
}

func TestNewPickDiscardsPendingUpload(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)

	require.NoError(t, s.Pick(pngFile(t, "first.png", 2, 2)))
	first, err := s.Start()
	require.NoError(t, err)
	_, err = s.Start()
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, s.Pick(pngFile(t, "second.png", 2, 2)))
	assert.Equal(t, "second.png", s.Preview().Name)

	assert.False(t, s.Finish(first.Run(context.Background())), "late result of the first pick")
	assert.Equal(t, Picked, s.State())
}

func TestClosedSessionIgnoresLateUpload(t *testing.T) {
	s := NewSession(&fakeUploader{})
	require.NoError(t, s.Pick(pngFile(t, "hull.png", 2, 2)))
	job, err := s.Start()
	require.NoError(t, err)

	s.Close()
	assert.False(t, s.Finish(job.Run(context.Background())))
	assert.Equal(t, Empty, s.State())
}
