package hdrtone

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder.
	_ "image/jpeg" // Register JPEG decoder.
	_ "image/png"  // Register PNG decoder.

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // Register BMP decoder.
	_ "golang.org/x/image/tiff" // Register TIFF decoder.
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

// ErrUnsupportedFormat is returned for inputs that are not a supported image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoded is a decoded image with the metadata relevant to tone mapping.
type Decoded struct {
	Image  *Image
	Format string // jpeg, png, webp, tiff, bmp or gif
	ICC    []byte // embedded ICC profile, nil if absent
	EXIF   []byte // JPEG EXIF APP1 payload, nil if absent

	// MetadataErr is set when container metadata could not be read.
	// ICC and EXIF are dropped then, the pixels are still decoded.
	MetadataErr error
}

// Decode sniffs and decodes an encoded image, returning BGR(A) pixels and the embedded ICC profile.
// Unreadable metadata is not an error: the image decodes without a profile, so it classifies as SDR.
func Decode(data []byte) (*Decoded, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, ErrUnsupportedFormat
	}

	d := &Decoded{}
	switch kind.Extension {
	case "jpg":
		d.EXIF, d.ICC, err = jpegMetadata(data)
	case "png":
		d.ICC, err = pngICCProfile(data)
	case "webp":
		d.ICC, err = webpICCProfile(data)
	case "tif":
		d.ICC, err = tiffICCProfile(data)
	}
	if err != nil {
		d.ICC, d.EXIF = nil, nil
		d.MetadataErr = fmt.Errorf("read %s metadata: %w", kind.Extension, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	d.Format = format
	d.Image, err = FromImage(img)
	if err != nil {
		return nil, err
	}
	return d, nil
}
