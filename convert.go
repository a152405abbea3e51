package hdrtone

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
)

// FromImage converts a decoded Go image into a BGR (opaque sources) or BGRA buffer.
// Wider sample formats are reduced to 8 bits per channel.
func FromImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	switch src := img.(type) {
	case *image.NRGBA:
		if src.Opaque() {
			return bgrFromRGBA(src.Pix, src.Stride, w, h), nil
		}
		out := NewImage(w, h, 4)
		for y := 0; y < h; y++ {
			s := src.Pix[y*src.Stride : y*src.Stride+w*4]
			d := out.Row(y)
			for x := 0; x < w; x++ {
				i := x * 4
				d[i], d[i+1], d[i+2], d[i+3] = s[i+2], s[i+1], s[i], s[i+3]
			}
		}
		return out, nil
	}

	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		out := NewImage(w, h, 4)
		for y := 0; y < h; y++ {
			d := out.Row(y)
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := x * 4
				d[i], d[i+1], d[i+2], d[i+3] = c.B, c.G, c.R, c.A
			}
		}
		return out, nil
	}

	// Premultiplied and straight alpha agree for opaque pixels.
	rgba := clone.AsRGBA(img)
	return bgrFromRGBA(rgba.Pix, rgba.Stride, w, h), nil
}

func bgrFromRGBA(pix []uint8, stride, w, h int) *Image {
	out := NewImage(w, h, 3)
	for y := 0; y < h; y++ {
		s := pix[y*stride : y*stride+w*4]
		d := out.Row(y)
		for x := 0; x < w; x++ {
			i := x * 4
			o := x * 3
			d[o], d[o+1], d[o+2] = s[i+2], s[i+1], s[i]
		}
	}
	return out
}

// NRGBA returns the buffer as a Go image. BGR buffers become fully opaque.
func (m *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		s := m.Row(y)
		d := out.Pix[y*out.Stride : y*out.Stride+m.Width*4]
		for x := 0; x < m.Width; x++ {
			o := x * 4
			switch m.Channels {
			case 4:
				i := x * 4
				d[o], d[o+1], d[o+2], d[o+3] = s[i+2], s[i+1], s[i], s[i+3]
			case 3:
				i := x * 3
				d[o], d[o+1], d[o+2], d[o+3] = s[i+2], s[i+1], s[i], 0xFF
			default:
				d[o], d[o+1], d[o+2], d[o+3] = s[x], s[x], s[x], 0xFF
			}
		}
	}
	return out
}
