package rafthumb

import "fmt"

// Thumbnail tags of IFD1.
const (
	tagJPEGInterchangeFormat       = 0x0201 // thumbnail offset
	tagJPEGInterchangeFormatLength = 0x0202 // thumbnail length
)

const (
	ifdCountSize = 2
	ifdEntrySize = 12
	ifdNextSize  = 4
)

// IFDEntry is a 12-byte TIFF directory entry.
// Type and Count are kept for completeness; only Tag and Value are interpreted.
type IFDEntry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Value uint32 // value, or offset to the value if it does not fit in 4 bytes
}

// IFDDirectory is a TIFF Image File Directory.
type IFDDirectory struct {
	Entries []IFDEntry
	// Next is the offset of the following directory, 0 if none.
	Next uint32
}

// ThumbnailDescriptor locates the thumbnail JPEG relative to the TIFF body.
type ThumbnailDescriptor struct {
	Offset uint32
	Length uint32
}

// TIFF is the result of walking the TIFF body of an EXIF segment.
type TIFF struct {
	Order      ByteOrder
	IFD0Offset uint32
	IFD0       IFDDirectory
	IFD1Offset uint32
	IFD1       IFDDirectory
	Thumbnail  ThumbnailDescriptor
}

// ReadDirectory reads the IFD at offset in body. It fails with
// ErrInvalidContainer if the table or the next pointer is past the end of body.
func ReadDirectory(body []byte, order ByteOrder, offset uint32) (IFDDirectory, error) {
	return readDirectory(view{name: "TIFF body", data: body}, order, uint64(offset))
}

func readDirectory(v view, order ByteOrder, offset uint64) (IFDDirectory, error) {
	count, err := v.uint16(order, offset)
	if err != nil {
		return IFDDirectory{}, err
	}

	pos := offset + ifdCountSize

	// Check the whole table up front so a bogus count cannot allocate past the input.
	if err := v.check(pos, uint64(count)*ifdEntrySize+ifdNextSize); err != nil {
		return IFDDirectory{}, err
	}

	entries := make([]IFDEntry, count)
	for i := range entries {
		b, _ := v.bytes(pos, ifdEntrySize)
		entries[i] = IFDEntry{
			Tag:   order.Uint16(b[0:]),
			Type:  order.Uint16(b[2:]),
			Count: order.Uint32(b[4:]),
			Value: order.Uint32(b[8:]),
		}
		pos += ifdEntrySize
	}

	next, err := v.uint32(order, pos)
	if err != nil {
		return IFDDirectory{}, err
	}

	return IFDDirectory{Entries: entries, Next: next}, nil
}

// WalkTIFF reads the byte order and the IFD0 offset from the TIFF header,
// walks IFD0 to reach IFD1 and collects the thumbnail tags from IFD1.
func WalkTIFF(body []byte) (*TIFF, error) {
	v := view{name: "TIFF body", data: body}

	marker, err := v.bytes(0, 2)
	if err != nil {
		return nil, err
	}

	order, err := ParseByteOrder(marker)
	if err != nil {
		return nil, err
	}

	// Bytes 2-3 hold the TIFF magic (42). It is not checked.
	ifd0Offset, err := v.uint32(order, 4)
	if err != nil {
		return nil, err
	}

	ifd0, err := readDirectory(v, order, uint64(ifd0Offset))
	if err != nil {
		return nil, fmt.Errorf("IFD0 at %d: %w", ifd0Offset, err)
	}

	ifd1Offset := ifd0.Next
	if ifd1Offset == 0 {
		return nil, fmt.Errorf("%w: IFD0 has no next directory", ErrMissingThumbnailTags)
	}

	ifd1, err := readDirectory(v, order, uint64(ifd1Offset))
	if err != nil {
		return nil, fmt.Errorf("IFD1 at %d: %w", ifd1Offset, err)
	}

	var thumb ThumbnailDescriptor
	for _, e := range ifd1.Entries {
		switch e.Tag {
		case tagJPEGInterchangeFormat:
			thumb.Offset = e.Value
		case tagJPEGInterchangeFormatLength:
			thumb.Length = e.Value
		}
	}

	if thumb.Offset == 0 || thumb.Length == 0 {
		return nil, fmt.Errorf("%w: offset %d, length %d in IFD1 at %d",
			ErrMissingThumbnailTags, thumb.Offset, thumb.Length, ifd1Offset)
	}

	return &TIFF{
		Order:      order,
		IFD0Offset: ifd0Offset,
		IFD0:       ifd0,
		IFD1Offset: ifd1Offset,
		IFD1:       ifd1,
		Thumbnail:  thumb,
	}, nil
}
