package rafthumb

import (
	"bytes"
	"fmt"
)

// RAF header layout.
const (
	rafMagic          = "FUJIFILMCCD-RAW"
	rafCameraIDOffset = 28
	rafCameraIDSize   = 32
	rafDirectory      = rafCameraIDOffset + rafCameraIDSize
	rafVersionSize    = 4
	rafJPEGOffset     = rafDirectory + 24 // big-endian u32, then u32 length
)

// Header holds the fields read from the fixed RAF header.
type Header struct {
	// CameraID is the NUL-terminated camera model string at offset 28.
	CameraID string
	// Version is the 4-byte directory version tag.
	Version string
	// JPEG is the embedded full-size JPEG, relative to the file start.
	JPEG ByteRange
}

// ParseHeader validates the RAF magic and locates the embedded full-size JPEG.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < len(rafMagic) || string(buf[:len(rafMagic)]) != rafMagic {
		n := min(len(buf), len(rafMagic))

		return nil, fmt.Errorf("%w: magic %q, want %q", ErrInvalidContainer, buf[:n], rafMagic)
	}

	file := view{name: "RAF header", data: buf}

	camid, err := file.bytes(rafCameraIDOffset, rafCameraIDSize)
	if err != nil {
		return nil, err
	}

	if i := bytes.IndexByte(camid, 0); i >= 0 {
		camid = camid[:i]
	}

	version, err := file.bytes(rafDirectory, rafVersionSize)
	if err != nil {
		return nil, err
	}

	offset, err := file.uint32(BigEndian, rafJPEGOffset)
	if err != nil {
		return nil, err
	}

	length, err := file.uint32(BigEndian, rafJPEGOffset+4)
	if err != nil {
		return nil, err
	}

	jpeg := ByteRange{Offset: offset, Length: length}
	if jpeg.Length == 0 {
		return nil, fmt.Errorf("%w: empty JPEG at offset %d", ErrInvalidContainer, offset)
	}

	if !jpeg.within(len(buf)) {
		return nil, fmt.Errorf("%w: JPEG range %s exceeds file size %d", ErrInvalidContainer, jpeg, len(buf))
	}

	return &Header{
		CameraID: string(camid),
		Version:  string(version),
		JPEG:     jpeg,
	}, nil
}
