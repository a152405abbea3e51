package hdrtone

import (
	"errors"
	"fmt"

	"github.com/vearutop/hdrtone/internal/cicp"
	"seehuhn.de/go/icc"
)

var (
	// ErrProfileEmpty is returned for a nil or zero-length profile.
	ErrProfileEmpty = errors.New("empty ICC profile")
	// ErrProfileTooLarge is returned for profiles above MaxProfileSize.
	ErrProfileTooLarge = errors.New("ICC profile too large")
	// ErrNoCICP is returned when the profile carries no cicp tag.
	ErrNoCICP = errors.New("ICC profile has no cicp tag")
)

const cicpTag = icc.TagType(cicp.TagSignature)

// ReadCICP parses an ICC profile and returns its coding-independent code points.
func ReadCICP(profile []byte) (cicp.Info, error) {
	if len(profile) == 0 {
		return cicp.Info{}, ErrProfileEmpty
	}
	if len(profile) > MaxProfileSize {
		return cicp.Info{}, fmt.Errorf("%w: %d bytes", ErrProfileTooLarge, len(profile))
	}
	p, err := icc.Decode(profile)
	if err != nil {
		return cicp.Info{}, fmt.Errorf("decode ICC profile: %w", err)
	}
	raw, ok := p.TagData[cicpTag]
	if !ok {
		return cicp.Info{}, ErrNoCICP
	}
	info, err := cicp.Decode(raw)
	if err != nil {
		return cicp.Info{}, fmt.Errorf("read cicp tag: %w", err)
	}
	return info, nil
}

// TransferOf returns the transfer characteristics declared by an ICC profile.
// Any failure to read the profile yields TransferUnspecified.
func TransferOf(profile []byte) TransferCharacteristic {
	info, err := ReadCICP(profile)
	if err != nil {
		return TransferUnspecified
	}
	return TransferCharacteristic(info.TransferCharacteristics)
}

// IsHDR reports whether an ICC profile declares a PQ or HLG transfer function.
// Empty, oversized or malformed profiles are treated as SDR.
func IsHDR(profile []byte) bool {
	return TransferOf(profile).IsHDR()
}
