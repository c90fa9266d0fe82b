package rafthumb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/garyhouston/jpegsegs"
)

// exifSignature starts the payload of an EXIF APP1 segment. Two pad bytes follow it.
const exifSignature = "Exif"

// tiffBodyOffset is the distance from the APP1 length field to the TIFF body:
// length (2), "Exif" (4) and padding (2).
const tiffBodyOffset = 8

// App1 describes the EXIF APP1 segment of the embedded JPEG.
// Offsets are relative to the start of the JPEG.
type App1 struct {
	// Marker is the offset of the 0xFF 0xE1 marker.
	Marker uint32
	// Length is the declared segment length. It is recorded but not trusted.
	Length uint16
	// TIFF is the TIFF body, running from after the Exif header to the end of the JPEG.
	TIFF ByteRange
}

// LocateApp1 validates the JPEG SOI and EXIF APP1 markers and locates the TIFF body.
//
// By default the APP1 marker must immediately follow SOI. With scan set,
// marker segments are skipped until an APP1 segment carrying Exif data is
// found, so JPEGs with a leading APP0 (JFIF) or XMP segment are accepted.
func LocateApp1(jpeg []byte, scan bool) (*App1, error) {
	if len(jpeg) < jpegsegs.HeaderSize || !jpegsegs.IsJPEGHeader(jpeg) {
		n := min(len(jpeg), jpegsegs.HeaderSize)

		return nil, fmt.Errorf("%w: found % X", ErrInvalidJpeg, jpeg[:n])
	}

	v := view{name: "JPEG", data: jpeg}
	if scan {
		return scanApp1(v)
	}

	if len(jpeg) < 4 || jpeg[2] != 0xFF || jpeg[3] != jpegsegs.APP1 {
		marker, _ := v.bytes(2, 2)

		return nil, fmt.Errorf("%w: found % X after SOI", ErrMissingApp1, marker)
	}

	return readApp1(v, 2)
}

// readApp1 reads the APP1 segment whose marker is at pos.
func readApp1(v view, pos uint64) (*App1, error) {
	length, err := v.uint16(BigEndian, pos+2)
	if err != nil {
		return nil, err
	}

	sig, err := v.bytes(pos+4, uint64(len(exifSignature)))
	if err != nil {
		return nil, err
	}

	if string(sig) != exifSignature {
		return nil, fmt.Errorf("%w: found %q instead", ErrMissingExifTag, sig)
	}

	start := pos + 2 + tiffBodyOffset
	if err := v.check(start, 1); err != nil {
		return nil, err
	}

	return &App1{
		Marker: uint32(pos),
		Length: length,
		TIFF:   ByteRange{Offset: uint32(start), Length: uint32(uint64(len(v.data)) - start)},
	}, nil
}

// scanApp1 walks the marker segments following SOI until it finds an EXIF APP1.
func scanApp1(v view) (*App1, error) {
	r := bytes.NewReader(v.data)
	buf := make([]byte, 2)

	if err := jpegsegs.ReadHeader(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJpeg, err)
	}

	size := uint64(len(v.data))

	var app1Sig []byte // signature of the first non-EXIF APP1, for diagnostics

	for {
		marker, err := jpegsegs.ReadMarker(r, buf)
		if err != nil {
			return nil, fmt.Errorf("%w: reading marker at %d: %v", ErrMissingApp1, size-uint64(r.Len()), err)
		}

		// The last two bytes read were 0xFF and the marker.
		pos := size - uint64(r.Len()) - 2

		switch {
		case marker == jpegsegs.SOS || marker == jpegsegs.EOI:
			if app1Sig != nil {
				return nil, fmt.Errorf("%w: found %q instead", ErrMissingExifTag, app1Sig)
			}

			return nil, fmt.Errorf("%w: reached %s at %d", ErrMissingApp1, marker.Name(), pos)
		case marker == jpegsegs.TEM || (marker >= jpegsegs.RST0 && marker <= jpegsegs.RST7):
			continue
		case marker == jpegsegs.APP1:
			sig, err := v.bytes(pos+4, uint64(len(exifSignature)))
			if err == nil && string(sig) == exifSignature {
				return readApp1(v, pos)
			}

			if err == nil && app1Sig == nil {
				app1Sig = sig
			}
		}

		length, err := v.uint16(BigEndian, pos+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %s segment at %d: %v", ErrMissingApp1, marker.Name(), pos, err)
		}

		next := pos + 2 + uint64(length)
		if length < 2 || next > size {
			return nil, fmt.Errorf("%w: %s segment at %d has invalid length %d", ErrMissingApp1, marker.Name(), pos, length)
		}

		if _, err := r.Seek(int64(next), io.SeekStart); err != nil {
			return nil, err
		}
	}
}
