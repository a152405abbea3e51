package hdrtone

import (
	"encoding/binary"
	"errors"
)

const (
	tiffTagICCProfile = 34675
	tiffTypeByte      = 1
	tiffTypeUndefined = 7
)

func tiffByteOrder(data []byte) (binary.ByteOrder, error) {
	if len(data) < 8 {
		return nil, errors.New("invalid TIFF")
	}
	var bo binary.ByteOrder
	switch string(data[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return nil, errors.New("invalid TIFF byte order")
	}
	if bo.Uint16(data[2:]) != 42 {
		return nil, errors.New("invalid TIFF magic")
	}
	return bo, nil
}

// tiffIFD0 returns the entry table of the first IFD and the offset of its next-IFD pointer.
func tiffIFD0(data []byte, bo binary.ByteOrder) (entries []byte, next int, err error) {
	ifd := int(bo.Uint32(data[4:]))
	if ifd < 8 || ifd+2 > len(data) {
		return nil, 0, errors.New("invalid TIFF IFD offset")
	}
	n := int(bo.Uint16(data[ifd:]))
	next = ifd + 2 + n*12
	if next+4 > len(data) {
		return nil, 0, errors.New("truncated TIFF IFD")
	}
	return data[ifd+2 : next], next, nil
}

// tiffICCProfile returns the InterColorProfile tag of the first IFD of a TIFF file, if any.
func tiffICCProfile(data []byte) ([]byte, error) {
	bo, err := tiffByteOrder(data)
	if err != nil {
		return nil, err
	}
	entries, _, err := tiffIFD0(data, bo)
	if err != nil {
		return nil, err
	}
	for i := 0; i+12 <= len(entries); i += 12 {
		e := entries[i : i+12]
		if bo.Uint16(e) != tiffTagICCProfile {
			continue
		}
		typ := bo.Uint16(e[2:])
		if typ != tiffTypeUndefined && typ != tiffTypeByte {
			return nil, errors.New("invalid TIFF ICC profile type")
		}
		count := int(bo.Uint32(e[4:]))
		if count <= 4 {
			return append([]byte(nil), e[8:8+count]...), nil
		}
		off := int(bo.Uint32(e[8:]))
		if count > MaxProfileSize || off < 0 || off+count > len(data) {
			return nil, errors.New("invalid TIFF ICC profile bounds")
		}
		return append([]byte(nil), data[off:off+count]...), nil
	}
	return nil, nil
}

// insertTIFFICCProfile appends the profile and a copy of the first IFD carrying an
// InterColorProfile entry, then points the header at the new IFD. Existing value
// offsets stay valid since nothing before the end of the file moves.
func insertTIFFICCProfile(data, profile []byte) ([]byte, error) {
	if len(profile) <= 4 {
		return nil, errors.New("ICC profile too short")
	}
	bo, err := tiffByteOrder(data)
	if err != nil {
		return nil, err
	}
	entries, next, err := tiffIFD0(data, bo)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(data)+len(profile)+len(entries)+32)
	out = append(out, data...)
	if len(out)%2 == 1 {
		out = append(out, 0)
	}
	profileOff := len(out)
	out = append(out, profile...)
	if len(out)%2 == 1 {
		out = append(out, 0)
	}

	icc := make([]byte, 12)
	bo.PutUint16(icc, tiffTagICCProfile)
	bo.PutUint16(icc[2:], tiffTypeUndefined)
	bo.PutUint32(icc[4:], uint32(len(profile)))
	bo.PutUint32(icc[8:], uint32(profileOff))

	// Entries must stay sorted by tag.
	table := make([]byte, 0, len(entries)+12)
	placed := false
	for i := 0; i+12 <= len(entries); i += 12 {
		e := entries[i : i+12]
		tag := bo.Uint16(e)
		if !placed && tag >= tiffTagICCProfile {
			table = append(table, icc...)
			placed = true
		}
		if tag != tiffTagICCProfile {
			table = append(table, e...)
		}
	}
	if !placed {
		table = append(table, icc...)
	}

	ifdOff := len(out)
	out = append(out, 0, 0)
	bo.PutUint16(out[ifdOff:], uint16(len(table)/12))
	out = append(out, table...)
	out = append(out, data[next:next+4]...)
	bo.PutUint32(out[4:], uint32(ifdOff))
	return out, nil
}
