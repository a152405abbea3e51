package hdrtone

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinICCProfile(t *testing.T) {
	profile := make([]byte, 2*maxICCChunk+100)
	rand.New(rand.NewSource(1)).Read(profile)

	payloads, err := splitICCProfile(profile)
	require.NoError(t, err)
	require.Len(t, payloads, 3)

	chunks := make([]iccChunk, 0, len(payloads))
	for i := len(payloads) - 1; i >= 0; i-- {
		assert.LessOrEqual(t, len(payloads[i]), maxSegmentPayload)
		c, ok := parseICCChunk(payloads[i])
		require.True(t, ok)
		assert.Equal(t, byte(i+1), c.seq)
		assert.Equal(t, byte(3), payloads[i][len(iccSig)+1])
		chunks = append(chunks, c)
	}
	assert.Equal(t, profile, joinICCChunks(chunks))

	payloads, err = splitICCProfile(nil)
	require.NoError(t, err)
	assert.Nil(t, payloads)

	_, ok := parseICCChunk([]byte("not an icc chunk"))
	assert.False(t, ok)
	assert.Nil(t, joinICCChunks(nil))
}

func TestJPEGMetadataRoundTrip(t *testing.T) {
	profile := make([]byte, maxICCChunk+10)
	rand.New(rand.NewSource(2)).Read(profile)
	exif := append(append([]byte(nil), exifSig...), 'I', 'I', 42, 0, 8, 0, 0, 0)

	data, err := Encode(randomImage(16, 8, 3, 3), EncodeOptions{Format: "jpeg", ICC: profile, EXIF: exif})
	require.NoError(t, err)

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", dec.Format)
	assert.Equal(t, profile, dec.ICC)
	assert.Equal(t, exif, dec.EXIF)
	assert.Equal(t, 16, dec.Image.Width)
	assert.Equal(t, 3, dec.Image.Channels)
}

func TestJPEGWithoutMetadata(t *testing.T) {
	data, err := Encode(randomImage(8, 8, 4, 4), EncodeOptions{})
	require.NoError(t, err)

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, dec.ICC)
	assert.Nil(t, dec.EXIF)
	assert.Equal(t, 3, dec.Image.Channels, "JPEG drops alpha")
}

func TestJPEGMetadataInvalid(t *testing.T) {
	_, _, err := jpegMetadata([]byte{0x00, 0x01, 0x02, 0x03})
	assert.Error(t, err)

	_, _, err = jpegMetadata([]byte{0xFF, 0xD8, 0xFF, 0xE2, 0xFF, 0xFF})
	assert.ErrorContains(t, err, "segment length")

	_, _, err = jpegMetadata([]byte{0xFF, 0xD8, 0x00, 0x00, 0x00, 0x00})
	assert.Error(t, err)

	_, err = withJPEGMetadata([]byte{0x01}, nil, nil)
	assert.Error(t, err)

	_, err = withJPEGMetadata([]byte{0xFF, 0xD8}, make([]byte, maxSegmentPayload+1), nil)
	assert.ErrorContains(t, err, "EXIF")
}

func TestJPEGMetadataSkipsFillAndRestartMarkers(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xFF, 0xD0}
	data = appendSegment(data, markerAPP1, append(append([]byte(nil), exifSig...), 1, 2))
	data = appendSegment(data, markerAPP1, append(append([]byte(nil), exifSig...), 3, 4))
	data = append(data, 0xFF, 0xD9)

	exif, profile, err := jpegMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), exifSig...), 1, 2), exif, "first EXIF segment wins")
	assert.Nil(t, profile)
}

func TestPNGICCRoundTrip(t *testing.T) {
	profile := testProfile(t, TransferHLG)
	src := randomImage(5, 4, 4, 5)

	data, err := Encode(src, EncodeOptions{Format: "png", ICC: profile})
	require.NoError(t, err)

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", dec.Format)
	assert.Equal(t, profile, dec.ICC)
	assert.Equal(t, src.Pix, dec.Image.Pix)
	assert.True(t, IsHDR(dec.ICC))
}

func TestPNGWithoutICC(t *testing.T) {
	data, err := Encode(randomImage(3, 3, 3, 6), EncodeOptions{Format: "png"})
	require.NoError(t, err)

	profile, err := pngICCProfile(data)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestPNGInvalidICCP(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pngSig)
	writePNGChunk(&buf, "IHDR", make([]byte, 13))
	writePNGChunk(&buf, "iCCP", []byte("name\x00\x00not zlib"))
	writePNGChunk(&buf, "IEND", nil)

	_, err := pngICCProfile(buf.Bytes())
	assert.Error(t, err)

	_, err = decodeICCPChunk([]byte("name\x00\x01"))
	assert.ErrorContains(t, err, "compression method")

	_, err = decodeICCPChunk([]byte("\x00\x00"))
	assert.Error(t, err)

	_, err = pngICCProfile([]byte("not a png"))
	assert.Error(t, err)

	trunc := append([]byte(nil), pngSig...)
	trunc = append(trunc, 0, 0, 1, 0, 'I', 'H', 'D', 'R')
	_, err = pngICCProfile(trunc)
	assert.ErrorContains(t, err, "truncated")
}

// withPNGChunk inserts a raw chunk right after IHDR.
func withPNGChunk(data []byte, typ string, body []byte) []byte {
	ihdrEnd := len(pngSig) + 8 + 13 + 4
	var buf bytes.Buffer
	buf.Write(data[:ihdrEnd])
	writePNGChunk(&buf, typ, body)
	buf.Write(data[ihdrEnd:])
	return buf.Bytes()
}

func TestDecodeDropsBrokenICCP(t *testing.T) {
	src := randomImage(2, 2, 3, 9)
	data, err := Encode(src, EncodeOptions{Format: "png"})
	require.NoError(t, err)
	data = withPNGChunk(data, "iCCP", []byte("x\x00\x00not zlib"))

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, dec.ICC)
	assert.ErrorContains(t, dec.MetadataErr, "iCCP")
	assert.Equal(t, src.Pix, dec.Image.Pix)
	assert.False(t, IsHDR(dec.ICC))
}

func riffChunk(fourcc string, body []byte) []byte {
	out := make([]byte, 8, 8+len(body)+1)
	copy(out, fourcc)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(body)))
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func webpFile(chunks ...[]byte) []byte {
	var body []byte
	body = append(body, "WEBP"...)
	for _, c := range chunks {
		body = append(body, c...)
	}
	out := []byte("RIFF\x00\x00\x00\x00")
	binary.LittleEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}

func TestWebPICCProfile(t *testing.T) {
	profile := []byte("odd-sized profile")
	data := webpFile(
		riffChunk("VP8X", make([]byte, 10)),
		riffChunk("EXIF", []byte{1, 2, 3}),
		riffChunk("ICCP", profile),
		riffChunk("VP8L", []byte{0x2f}),
	)

	got, err := webpICCProfile(data)
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	got, err = webpICCProfile(webpFile(riffChunk("VP8L", []byte{0x2f, 0, 0})))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = webpICCProfile([]byte("RIFF\x00\x00\x00\x00WAVE"))
	assert.Error(t, err)

	bad := webpFile(riffChunk("ICCP", profile))
	_, err = webpICCProfile(bad[:len(bad)-4])
	assert.ErrorContains(t, err, "truncated")
}

func TestEncodeFormats(t *testing.T) {
	src := randomImage(6, 4, 3, 7)
	for _, format := range []string{"tiff", "bmp"} {
		t.Run(format, func(t *testing.T) {
			data, err := Encode(src, EncodeOptions{Format: format})
			require.NoError(t, err)

			dec, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, format, dec.Format)
			assert.Equal(t, src.Pix, dec.Image.Pix)
		})
	}

	_, err := Encode(src, EncodeOptions{Format: "gif"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Encode(nil, EncodeOptions{})
	assert.ErrorIs(t, err, ErrNilImage)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func tiffWithICC(bo binary.ByteOrder, profile []byte) []byte {
	data := make([]byte, 8, 64+len(profile))
	if bo == binary.LittleEndian {
		copy(data, "II")
	} else {
		copy(data, "MM")
	}
	bo.PutUint16(data[2:], 42)
	bo.PutUint32(data[4:], 8)

	ifd := make([]byte, 2+2*12+4)
	bo.PutUint16(ifd, 2)
	// ImageWidth, SHORT, 1.
	bo.PutUint16(ifd[2:], 256)
	bo.PutUint16(ifd[4:], 3)
	bo.PutUint32(ifd[6:], 1)
	bo.PutUint16(ifd[10:], 1)
	// InterColorProfile, UNDEFINED.
	bo.PutUint16(ifd[14:], tiffTagICCProfile)
	bo.PutUint16(ifd[16:], tiffTypeUndefined)
	bo.PutUint32(ifd[18:], uint32(len(profile)))
	bo.PutUint32(ifd[22:], uint32(8+len(ifd)))
	data = append(data, ifd...)
	return append(data, profile...)
}

func TestTIFFICCRoundTrip(t *testing.T) {
	profile := testProfile(t, TransferHLG)
	src := randomImage(7, 5, 3, 10)

	data, err := Encode(src, EncodeOptions{Format: "tiff", ICC: profile})
	require.NoError(t, err)

	dec, err := Decode(data)
	require.NoError(t, err)
	require.NoError(t, dec.MetadataErr)
	assert.Equal(t, "tiff", dec.Format)
	assert.Equal(t, profile, dec.ICC)
	assert.Equal(t, src.Pix, dec.Image.Pix)

	// Replacing keeps a single, sorted entry.
	again, err := insertTIFFICCProfile(data, []byte("second profile"))
	require.NoError(t, err)
	got, err := tiffICCProfile(again)
	require.NoError(t, err)
	assert.Equal(t, []byte("second profile"), got)

	bo := binary.LittleEndian
	entries, _, err := tiffIFD0(again, bo)
	require.NoError(t, err)
	prev, iccEntries := uint16(0), 0
	for i := 0; i < len(entries); i += 12 {
		tag := bo.Uint16(entries[i:])
		assert.Greater(t, tag, prev)
		prev = tag
		if tag == tiffTagICCProfile {
			iccEntries++
		}
	}
	assert.Equal(t, 1, iccEntries)

	_, err = insertTIFFICCProfile(data, []byte{1, 2})
	assert.Error(t, err)
	_, err = insertTIFFICCProfile([]byte("not a tiff"), profile)
	assert.Error(t, err)
}

func TestTIFFICCProfile(t *testing.T) {
	profile := testProfile(t, TransferPQ)
	for _, bo := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		got, err := tiffICCProfile(tiffWithICC(bo, profile))
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	}

	data, err := Encode(randomImage(3, 3, 3, 8), EncodeOptions{Format: "tiff"})
	require.NoError(t, err)
	got, err := tiffICCProfile(data)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = tiffICCProfile([]byte("XX*\x00\x08\x00\x00\x00"))
	assert.Error(t, err)

	bad := tiffWithICC(binary.LittleEndian, profile)
	_, err = tiffICCProfile(bad[:len(bad)-10])
	assert.ErrorContains(t, err, "bounds")
}
