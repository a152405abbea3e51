package hdrtone

import (
	"errors"
	"fmt"
)

var (
	// ErrNilImage is returned when the source image is nil.
	ErrNilImage = errors.New("nil image")
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrUnsupportedDepth is returned for images that are not 8 bits per channel.
	ErrUnsupportedDepth = errors.New("unsupported bit depth")
	// ErrUnsupportedChannels is returned for images that are not BGR or BGRA.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	// ErrShortBuffer is returned when Pix cannot hold Height rows of Stride bytes.
	ErrShortBuffer = errors.New("pixel buffer too short")
)

// Image is an interleaved 8-bit pixel buffer in B, G, R[, A] channel order.
// Single-channel images only appear as alpha planes produced by SplitAlpha.
type Image struct {
	Width    int
	Height   int
	Channels int // 1 (alpha plane), 3 (BGR) or 4 (BGRA)
	Depth    int // bits per channel
	Stride   int // bytes per row
	Pix      []uint8
}

// NewImage allocates a zeroed 8-bit image with a compact stride.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Depth:    supportedDepth,
		Stride:   width * channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// HasAlpha reports whether the image carries an alpha channel.
func (m *Image) HasAlpha() bool {
	return m.Channels == 4
}

// Row returns the pixels of row y without padding.
func (m *Image) Row(y int) []uint8 {
	off := y * m.Stride
	return m.Pix[off : off+m.Width*m.Channels]
}

// Clone returns a compact copy of the image.
func (m *Image) Clone() *Image {
	out := NewImage(m.Width, m.Height, m.Channels)
	out.Depth = m.Depth
	for y := 0; y < m.Height; y++ {
		copy(out.Row(y), m.Row(y))
	}
	return out
}

// SplitAlpha separates a BGRA image into a BGR image and a single-channel alpha plane.
func (m *Image) SplitAlpha() (bgr *Image, alpha *Image) {
	bgr = NewImage(m.Width, m.Height, 3)
	alpha = NewImage(m.Width, m.Height, 1)
	for y := 0; y < m.Height; y++ {
		src := m.Row(y)
		dc := bgr.Row(y)
		da := alpha.Row(y)
		for x := 0; x < m.Width; x++ {
			s := x * 4
			d := x * 3
			dc[d] = src[s]
			dc[d+1] = src[s+1]
			dc[d+2] = src[s+2]
			da[x] = src[s+3]
		}
	}
	return bgr, alpha
}

// MergeAlpha interleaves a BGR image and an alpha plane into a BGRA image.
func MergeAlpha(bgr, alpha *Image) (*Image, error) {
	if bgr == nil || alpha == nil {
		return nil, ErrNilImage
	}
	if bgr.Channels != 3 || alpha.Channels != 1 {
		return nil, fmt.Errorf("%w: merge %d+%d", ErrUnsupportedChannels, bgr.Channels, alpha.Channels)
	}
	if bgr.Width != alpha.Width || bgr.Height != alpha.Height {
		return nil, fmt.Errorf("alpha plane size mismatch: %dx%d vs %dx%d",
			alpha.Width, alpha.Height, bgr.Width, bgr.Height)
	}
	out := NewImage(bgr.Width, bgr.Height, 4)
	for y := 0; y < bgr.Height; y++ {
		sc := bgr.Row(y)
		sa := alpha.Row(y)
		dst := out.Row(y)
		for x := 0; x < bgr.Width; x++ {
			d := x * 4
			s := x * 3
			dst[d] = sc[s]
			dst[d+1] = sc[s+1]
			dst[d+2] = sc[s+2]
			dst[d+3] = sa[x]
		}
	}
	return out, nil
}

// validateColor checks the preconditions for tone mapping input.
func validateColor(m *Image) error {
	if m == nil {
		return ErrNilImage
	}
	if m.Width <= 0 || m.Height <= 0 || len(m.Pix) == 0 {
		return ErrEmptyImage
	}
	if m.Depth != supportedDepth {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, m.Depth)
	}
	if m.Channels != 3 && m.Channels != 4 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, m.Channels)
	}
	rowLen := m.Width * m.Channels
	if m.Stride < rowLen || len(m.Pix) < (m.Height-1)*m.Stride+rowLen {
		return ErrShortBuffer
	}
	return nil
}
