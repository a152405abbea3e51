package hdrtone

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vearutop/hdrtone/internal/cicp"
	"seehuhn.de/go/icc"
)

// testProfile returns an sRGB profile carrying a cicp tag with the given transfer code.
func testProfile(t testing.TB, transfer TransferCharacteristic) []byte {
	t.Helper()
	p, err := icc.Decode(icc.SRGBv4Profile)
	require.NoError(t, err)
	p.TagData[cicpTag] = cicp.Encode(cicp.Info{
		ColorPrimaries:          9,
		TransferCharacteristics: uint8(transfer),
		VideoFullRange:          true,
	})
	data, err := p.Encode()
	require.NoError(t, err)
	return data
}

func randomImage(w, h, channels int, seed int64) *Image {
	img := NewImage(w, h, channels)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Read(img.Pix)
	return img
}
