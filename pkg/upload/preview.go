package upload

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const thumbSize = 48

// Preview is the local rendition of a picked file, available before the
// upload finishes. Thumb is nil for formats that cannot be decoded locally.
type Preview struct {
	Name   string
	Size   int64
	Type   string
	Width  int
	Height int
	Thumb  image.Image
}

func newPreview(f File) Preview {
	p := Preview{Name: f.Name, Size: f.Size, Type: f.Type}
	rc, err := f.Open()
	if err != nil {
		return p
	}
	defer rc.Close()
	p.decode(rc)
	return p
}

func (p *Preview) decode(r io.Reader) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return
	}
	b := img.Bounds()
	p.Width, p.Height = b.Dx(), b.Dy()
	p.Thumb = imaging.Fit(img, thumbSize, thumbSize, imaging.Box)
}
