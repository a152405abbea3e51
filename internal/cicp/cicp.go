// Package cicp decodes and encodes the ICC 'cicp' tag (ITU-T H.273 coding-independent code points).
package cicp

import (
	"errors"
	"fmt"
)

// TagSignature is the ICC tag (and tag type) signature of the CICP tag.
const TagSignature = 0x63696370 // 'cicp'

// PayloadSize is the encoded size of a cicp tag: signature, reserved, four code points.
const PayloadSize = 12

var (
	errShort     = errors.New("cicp tag too short")
	errSignature = errors.New("not a cicp tag")
)

// Info holds the code points stored in a cicp tag.
type Info struct {
	ColorPrimaries          uint8
	TransferCharacteristics uint8
	MatrixCoefficients      uint8
	VideoFullRange          bool
}

// Decode parses raw tag data as stored in the ICC tag table.
func Decode(raw []byte) (Info, error) {
	if len(raw) < PayloadSize {
		return Info{}, fmt.Errorf("%w: %d bytes", errShort, len(raw))
	}
	sig := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	if sig != TagSignature {
		return Info{}, fmt.Errorf("%w: type 0x%08X", errSignature, sig)
	}
	// raw[4:8] is reserved.
	return Info{
		ColorPrimaries:          raw[8],
		TransferCharacteristics: raw[9],
		MatrixCoefficients:      raw[10],
		VideoFullRange:          raw[11] != 0,
	}, nil
}

// Encode returns the tag data for info.
func Encode(info Info) []byte {
	out := make([]byte, PayloadSize)
	out[0], out[1], out[2], out[3] = 'c', 'i', 'c', 'p'
	out[8] = info.ColorPrimaries
	out[9] = info.TransferCharacteristics
	out[10] = info.MatrixCoefficients
	if info.VideoFullRange {
		out[11] = 1
	}
	return out
}
