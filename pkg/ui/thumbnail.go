package ui

import (
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	te "github.com/muesli/termenv"
)

const halfBlock = "▀"

// Thumbnail draws img with one upper half block per two pixel rows, the top
// pixel as foreground and the bottom one as background.
func Thumbnail(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	p := te.ColorProfile()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, _ := colorful.MakeColor(img.At(x, y))
			s := te.String(halfBlock).Foreground(p.Color(top.Hex()))
			if y+1 < b.Max.Y {
				bottom, _ := colorful.MakeColor(img.At(x, y+1))
				s = s.Background(p.Color(bottom.Hex()))
			}
			sb.WriteString(s.String())
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
