// Package endian selects the byte order used by store file sections.
//
// A store file records its byte order once, in the file header flags; every later fixed-size
// section (chunk headers, trailer) is read and written with the matching Engine:
//
//	engine := endian.ForFlag(header.IsBigEndian())
//	size := engine.Uint32(buf[0:4])
//
// Little-endian is the default.
package endian

import "encoding/binary"

// Engine combines binary.ByteOrder and binary.AppendByteOrder.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}

// ForFlag returns Big when bigEndian is set and Little otherwise.
func ForFlag(bigEndian bool) Engine {
	if bigEndian {
		return Big()
	}

	return Little()
}

// IsBig reports whether engine writes the most significant byte first.
func IsBig(engine Engine) bool {
	var b [2]byte
	engine.PutUint16(b[:], 0x0102)

	return b[0] == 0x01
}
