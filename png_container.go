package hdrtone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

var pngSig = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

const iccProfileName = "ICC Profile"

// pngChunks calls fn for every chunk until IEND or fn returns false.
// off is the offset of the chunk length field.
func pngChunks(data []byte, fn func(typ string, body []byte, off int) bool) error {
	if !bytes.HasPrefix(data, pngSig) {
		return errors.New("invalid PNG")
	}
	pos := len(pngSig)
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + n + 4
		if n < 0 || end > len(data) {
			return errors.New("truncated PNG chunk")
		}
		if !fn(typ, data[pos+8:pos+8+n], pos) || typ == "IEND" {
			return nil
		}
		pos = end
	}
	return nil
}

// pngICCProfile returns the decompressed iCCP profile of a PNG, if any.
func pngICCProfile(data []byte) ([]byte, error) {
	var (
		profile []byte
		err     error
	)
	walkErr := pngChunks(data, func(typ string, body []byte, _ int) bool {
		switch typ {
		case "iCCP":
			profile, err = decodeICCPChunk(body)
			return false
		case "IDAT":
			return false
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return profile, err
}

func decodeICCPChunk(body []byte) ([]byte, error) {
	nul := bytes.IndexByte(body, 0)
	if nul < 1 || nul > 79 || nul+2 > len(body) {
		return nil, errors.New("invalid iCCP chunk")
	}
	if body[nul+1] != 0 {
		return nil, fmt.Errorf("unsupported iCCP compression method %d", body[nul+1])
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[nul+2:]))
	if err != nil {
		return nil, fmt.Errorf("iCCP: %w", err)
	}
	defer zr.Close()
	profile, err := io.ReadAll(io.LimitReader(zr, MaxProfileSize+1))
	if err != nil {
		return nil, fmt.Errorf("iCCP: %w", err)
	}
	return profile, nil
}

// insertPNGICCProfile adds an iCCP chunk right after IHDR.
func insertPNGICCProfile(data []byte, profile []byte) ([]byte, error) {
	var ihdrEnd int
	if err := pngChunks(data, func(typ string, body []byte, off int) bool {
		if typ == "IHDR" {
			ihdrEnd = off + 12 + len(body)
		}
		return false
	}); err != nil {
		return nil, err
	}
	if ihdrEnd == 0 {
		return nil, errors.New("PNG without IHDR")
	}

	var body bytes.Buffer
	body.WriteString(iccProfileName)
	body.WriteByte(0)
	body.WriteByte(0) // deflate
	zw, err := zlib.NewWriterLevel(&body, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(profile); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(data) + body.Len() + 12)
	out.Write(data[:ihdrEnd])
	writePNGChunk(&out, "iCCP", body.Bytes())
	out.Write(data[ihdrEnd:])
	return out.Bytes(), nil
}

func writePNGChunk(out *bytes.Buffer, typ string, body []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(body)))
	copy(hdr[4:], typ)
	out.Write(hdr[:])
	out.Write(body)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(body)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
}
