package rafthumb

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte integers in a TIFF body are combined.
type ByteOrder int

const (
	// BigEndian is the Motorola ("MM") order, most significant byte first.
	BigEndian ByteOrder = iota
	// LittleEndian is the Intel ("II") order, least significant byte first.
	LittleEndian
)

// ParseByteOrder returns the byte order selected by a 2-byte TIFF order marker.
func ParseByteOrder(marker []byte) (ByteOrder, error) {
	if len(marker) >= 2 {
		if marker[0] == 0x49 && marker[1] == 0x49 { // II (Intel)
			return LittleEndian, nil
		} else if marker[0] == 0x4D && marker[1] == 0x4D { // MM (Motorola)
			return BigEndian, nil
		}
	}

	return BigEndian, fmt.Errorf("%w: marker %q is neither \"II\" nor \"MM\"", ErrInvalidByteOrder, marker)
}

// Uint16 combines the first 2 bytes of b. The caller guarantees len(b) >= 2.
func (o ByteOrder) Uint16(b []byte) uint16 {
	if o == LittleEndian {
		return uint16(b[0]) | uint16(b[1])<<8
	}

	return uint16(b[0])<<8 | uint16(b[1])
}

// Uint32 combines the first 4 bytes of b. The caller guarantees len(b) >= 4.
func (o ByteOrder) Uint32(b []byte) uint32 {
	if o == LittleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}

	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Binary returns the equivalent encoding/binary order, for use with
// TIFF libraries that take a binary.ByteOrder.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "LittleEndian"
	}

	return "BigEndian"
}
