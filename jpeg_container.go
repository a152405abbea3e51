package hdrtone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"
)

const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerTEM   = 0x01
	markerRST0  = 0xD0
	markerRST7  = 0xD7
	markerAPP1  = 0xE1
	markerAPP2  = 0xE2
)

const (
	// maxSegmentPayload is the largest payload a length-prefixed segment can carry.
	maxSegmentPayload = 0xFFFF - 2
	// maxICCChunk is the profile share of one APP2 segment: signature, sequence and count take 14 bytes.
	maxICCChunk = maxSegmentPayload - 14
)

var (
	exifSig = []byte{'E', 'x', 'i', 'f', 0, 0}
	iccSig  = []byte{'I', 'C', 'C', '_', 'P', 'R', 'O', 'F', 'I', 'L', 'E', 0}
)

// iccChunk is one numbered ICC_PROFILE APP2 payload without its header.
type iccChunk struct {
	seq  byte
	data []byte
}

func parseICCChunk(payload []byte) (iccChunk, bool) {
	if len(payload) <= len(iccSig)+2 || !bytes.HasPrefix(payload, iccSig) {
		return iccChunk{}, false
	}
	return iccChunk{seq: payload[len(iccSig)], data: payload[len(iccSig)+2:]}, true
}

// joinICCChunks concatenates chunks in sequence order.
func joinICCChunks(chunks []iccChunk) []byte {
	if len(chunks) == 0 {
		return nil
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	n := 0
	for _, c := range chunks {
		n += len(c.data)
	}
	profile := make([]byte, 0, n)
	for _, c := range chunks {
		profile = append(profile, c.data...)
	}
	return profile
}

// jpegMetadata scans the header segments up to the first scan and returns
// the EXIF payload and the reassembled ICC profile.
func jpegMetadata(data []byte) (exif []byte, profile []byte, err error) {
	if len(data) < 4 || data[0] != markerStart || data[1] != markerSOI {
		return nil, nil, errors.New("invalid JPEG")
	}
	var chunks []iccChunk
	pos := 2
scan:
	for pos+4 <= len(data) {
		if data[pos] != markerStart {
			return nil, nil, errors.New("JPEG marker expected")
		}
		marker := data[pos+1]
		switch {
		case marker == markerStart: // fill byte
			pos++
			continue
		case marker == markerSOS || marker == markerEOI:
			break scan
		case marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7):
			pos += 2
			continue
		}

		n := int(binary.BigEndian.Uint16(data[pos+2:]))
		end := pos + 2 + n
		if n < 2 || end > len(data) {
			return nil, nil, errors.New("invalid JPEG segment length")
		}
		body := data[pos+4 : end]
		switch marker {
		case markerAPP1:
			if exif == nil && bytes.HasPrefix(body, exifSig) {
				exif = append([]byte(nil), body...)
			}
		case markerAPP2:
			if c, ok := parseICCChunk(body); ok {
				chunks = append(chunks, c)
			}
		}
		pos = end
	}
	return exif, joinICCChunks(chunks), nil
}

// splitICCProfile cuts a profile into ICC_PROFILE APP2 payloads numbered from 1.
func splitICCProfile(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, nil
	}
	count := (len(profile) + maxICCChunk - 1) / maxICCChunk
	if count > 255 {
		return nil, errors.New("ICC profile too large for JPEG")
	}
	payloads := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		part := profile[i*maxICCChunk : min((i+1)*maxICCChunk, len(profile))]
		p := make([]byte, 0, len(iccSig)+2+len(part))
		p = append(p, iccSig...)
		p = append(p, byte(i+1), byte(count))
		payloads = append(payloads, append(p, part...))
	}
	return payloads, nil
}

func appendSegment(dst []byte, marker byte, payload []byte) []byte {
	dst = append(dst, markerStart, marker, 0, 0)
	binary.BigEndian.PutUint16(dst[len(dst)-2:], uint16(len(payload)+2))
	return append(dst, payload...)
}

// withJPEGMetadata returns a copy of a JPEG stream with EXIF and ICC segments placed right after SOI.
func withJPEGMetadata(jpegData, exif, profile []byte) ([]byte, error) {
	if len(jpegData) < 2 || jpegData[0] != markerStart || jpegData[1] != markerSOI {
		return nil, errors.New("invalid JPEG")
	}
	if len(exif) > maxSegmentPayload {
		return nil, errors.New("EXIF payload too large for JPEG")
	}
	chunks, err := splitICCProfile(profile)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(jpegData)+len(exif)+len(profile)+4*(len(chunks)+1)+len(chunks)*(len(iccSig)+2))
	out = append(out, jpegData[:2]...)
	if len(exif) > 0 {
		out = appendSegment(out, markerAPP1, exif)
	}
	for _, c := range chunks {
		out = appendSegment(out, markerAPP2, c)
	}
	return append(out, jpegData[2:]...), nil
}
