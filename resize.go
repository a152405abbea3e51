package hdrtone

import (
	"errors"
	"image"

	"github.com/nfnt/resize"
)

// Interpolation selects the resampling kernel.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

func (i Interpolation) kernel() resize.InterpolationFunction {
	switch i {
	case InterpolationBilinear:
		return resize.Bilinear
	case InterpolationBicubic:
		return resize.Bicubic
	case InterpolationMitchellNetravali:
		return resize.MitchellNetravali
	case InterpolationLanczos2:
		return resize.Lanczos2
	case InterpolationLanczos3:
		return resize.Lanczos3
	default:
		return resize.NearestNeighbor
	}
}

// Resize scales an image to exactly width x height, keeping its channel layout.
func Resize(img *Image, width, height uint, interp Interpolation) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, errors.New("invalid target dimensions")
	}
	if err := validateColor(img); err != nil {
		return nil, err
	}
	return fromResized(img, resize.Resize(width, height, img.NRGBA(), interp.kernel()))
}

// Fit downscales an image to fit within maxWidth x maxHeight preserving aspect ratio.
// A zero bound is unconstrained. Images that already fit are returned as is.
func Fit(img *Image, maxWidth, maxHeight uint, interp Interpolation) (*Image, error) {
	if err := validateColor(img); err != nil {
		return nil, err
	}
	if maxWidth == 0 {
		maxWidth = uint(img.Width)
	}
	if maxHeight == 0 {
		maxHeight = uint(img.Height)
	}
	if uint(img.Width) <= maxWidth && uint(img.Height) <= maxHeight {
		return img, nil
	}
	return fromResized(img, resize.Thumbnail(maxWidth, maxHeight, img.NRGBA(), interp.kernel()))
}

func fromResized(src *Image, resized image.Image) (*Image, error) {
	out, err := FromImage(resized)
	if err != nil {
		return nil, err
	}
	if src.HasAlpha() && !out.HasAlpha() {
		alpha := NewImage(out.Width, out.Height, 1)
		for i := range alpha.Pix {
			alpha.Pix[i] = 0xFF
		}
		return MergeAlpha(out, alpha)
	}
	return out, nil
}
