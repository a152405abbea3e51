// Package hdrtone detects HDR images by the cicp tag of their ICC profile and tone maps
// PQ/HLG content to SDR.
//
// Pixels are handled as interleaved 8-bit BGR or BGRA buffers. The tone mapper applies a
// Reinhard operator to Rec. 709 luminance with an exposure scale adapted to the average
// image brightness. Decode and Encode wrap the standard and golang.org/x/image codecs and
// carry ICC profiles through JPEG, PNG, WebP and TIFF containers.
package hdrtone
