package hdrtone

// MaxProfileSize is the largest ICC profile accepted for classification.
const MaxProfileSize = 1 << 20

// Rec. 709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

const (
	scaleMin   = 0.85
	scaleMax   = 1.10
	scaleSlope = 0.25

	// nearBlack is the luminance at or below which a pixel maps to black.
	nearBlack = 0.001
)

const (
	defaultQuality = 90
	supportedDepth = 8
)
