package hdrtone

import (
	"encoding/binary"
	"errors"
)

// webpICCProfile returns the ICCP chunk of an extended-format WebP file, if any.
func webpICCProfile(data []byte) ([]byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, errors.New("invalid WebP")
	}
	pos := 12
	for pos+8 <= len(data) {
		fourcc := string(data[pos : pos+4])
		n := int(binary.LittleEndian.Uint32(data[pos+4:]))
		start := pos + 8
		if n < 0 || start+n > len(data) {
			return nil, errors.New("truncated WebP chunk")
		}
		if fourcc == "ICCP" {
			return append([]byte(nil), data[start:start+n]...), nil
		}
		pos = start + n + n&1
	}
	return nil, nil
}
