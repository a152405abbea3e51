package hdrtone

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// EncodeOptions controls Encode.
type EncodeOptions struct {
	Format  string // jpeg (default), png, tiff or bmp
	Quality int    // JPEG quality (1-100), 0 uses the default
	ICC     []byte // profile to embed (JPEG, PNG and TIFF; BMP output has none)
	EXIF    []byte // EXIF APP1 payload to embed (JPEG only)
}

// Encode serializes an image. JPEG output drops the alpha channel.
func Encode(img *Image, opt EncodeOptions) ([]byte, error) {
	if err := validateColor(img); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch opt.Format {
	case "", "jpeg", "jpg":
		q := opt.Quality
		if q <= 0 {
			q = defaultQuality
		}
		src := img
		if src.HasAlpha() {
			src, _ = src.SplitAlpha()
		}
		if err := jpeg.Encode(&buf, src.NRGBA(), &jpeg.Options{Quality: q}); err != nil {
			return nil, err
		}
		if len(opt.EXIF) == 0 && len(opt.ICC) == 0 {
			return buf.Bytes(), nil
		}
		return withJPEGMetadata(buf.Bytes(), opt.EXIF, opt.ICC)
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, img.NRGBA()); err != nil {
			return nil, err
		}
		if len(opt.ICC) == 0 {
			return buf.Bytes(), nil
		}
		return insertPNGICCProfile(buf.Bytes(), opt.ICC)
	case "tiff", "tif":
		if err := tiff.Encode(&buf, img.NRGBA(), &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return nil, err
		}
		if len(opt.ICC) == 0 {
			return buf.Bytes(), nil
		}
		return insertTIFFICCProfile(buf.Bytes(), opt.ICC)
	case "bmp":
		if err := bmp.Encode(&buf, img.NRGBA()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opt.Format)
	}
}
