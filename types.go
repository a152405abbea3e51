package hdrtone

import "fmt"

// TransferCharacteristic is an ITU-T H.273 transfer characteristics code point.
type TransferCharacteristic uint8

const (
	TransferUnspecified TransferCharacteristic = 0
	TransferPQ          TransferCharacteristic = 16 // SMPTE ST 2084 (HDR10)
	TransferHLG         TransferCharacteristic = 18 // ARIB STD-B67
)

// IsHDR reports whether the transfer function is PQ or HLG.
func (t TransferCharacteristic) IsHDR() bool {
	return t == TransferPQ || t == TransferHLG
}

func (t TransferCharacteristic) String() string {
	switch t {
	case TransferUnspecified:
		return "unspecified"
	case TransferPQ:
		return "pq"
	case TransferHLG:
		return "hlg"
	default:
		return fmt.Sprintf("TransferCharacteristic(%d)", uint8(t))
	}
}

// ToneMapState holds the per-call statistics of an HDR tone mapping pass.
type ToneMapState struct {
	// AvgBrightness is the mean Rec. 709 luminance of the source in [0, 1].
	AvgBrightness float32
	// Scale is the adaptive exposure factor applied before the Reinhard operator.
	Scale float32
}

// ToneMapOptions controls ToneMap.
type ToneMapOptions struct {
	// Workers caps row parallelism, 0 uses GOMAXPROCS.
	Workers int
	// Force skips profile classification and always tone maps.
	Force bool
	// OnState receives the statistics of an HDR pass.
	OnState func(st ToneMapState)
}
