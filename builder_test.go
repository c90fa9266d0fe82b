package rafthumb

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// Layout of the synthetic TIFF bodies: 8-byte header, IFD0 with one entry, then IFD1.
const (
	testIFD0     = 8
	testIFD0Next = testIFD0 + 2 + 12
	testIFD1     = testIFD0Next + 4
)

// Layout of the synthetic RAF files.
const (
	testRAFHeaderSize = 148
	testCameraID      = "X-T2"
	testVersion       = "0100"
)

// tagEntry returns a LONG entry with a single value.
func tagEntry(tag uint16, value uint32) IFDEntry {
	return IFDEntry{Tag: tag, Type: 4, Count: 1, Value: value}
}

// thumbnailTags is the usual IFD1: offset and length of the thumbnail.
func thumbnailTags(off, length uint32) []IFDEntry {
	return []IFDEntry{
		tagEntry(tagJPEGInterchangeFormat, off),
		tagEntry(tagJPEGInterchangeFormatLength, length),
	}
}

func appendOrder(order ByteOrder) binary.AppendByteOrder {
	if order == LittleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

func putEntries(order ByteOrder, buf []byte, entries []IFDEntry, next uint32) []byte {
	bo := appendOrder(order)
	buf = bo.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = bo.AppendUint16(buf, e.Tag)
		buf = bo.AppendUint16(buf, e.Type)
		buf = bo.AppendUint32(buf, e.Count)
		buf = bo.AppendUint32(buf, e.Value)
	}

	return bo.AppendUint32(buf, next)
}

// buildTIFF returns a TIFF body with IFD0, IFD1 and the thumbnail placed after IFD1.
// ifd1 receives the thumbnail offset and length; nil means thumbnailTags.
// ifd1 must return the same number of entries for any input.
func buildTIFF(order ByteOrder, ifd1 func(off, length uint32) []IFDEntry, thumb []byte) []byte {
	if ifd1 == nil {
		ifd1 = thumbnailTags
	}

	n := len(ifd1(0, 0))
	off := uint32(testIFD1 + 2 + 12*n + 4)
	entries := ifd1(off, uint32(len(thumb)))

	var buf []byte
	if order == LittleEndian {
		buf = append(buf, 'I', 'I')
	} else {
		buf = append(buf, 'M', 'M')
	}
	buf = appendOrder(order).AppendUint16(buf, 42)
	buf = appendOrder(order).AppendUint32(buf, testIFD0)
	buf = putEntries(order, buf, []IFDEntry{tagEntry(0x0100, 160)}, testIFD1)
	buf = putEntries(order, buf, entries, 0)

	return append(buf, thumb...)
}

// buildJPEG wraps a TIFF body in SOI, an optional APP0 segment and an EXIF APP1 segment.
func buildJPEG(body []byte, app0 bool, sig string) []byte {
	buf := []byte{0xFF, 0xD8}
	if app0 {
		buf = append(buf, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00)
	}

	length := min(2+6+len(body), 0xFFFF)
	buf = append(buf, 0xFF, 0xE1, byte(length>>8), byte(length))
	buf = append(buf, sig...)
	buf = append(buf, 0x00, 0x00)
	buf = append(buf, body...)

	// Stand-in for the full-size image data.
	buf = append(buf, 0xFF, 0xDA, 0x00, 0x02, 0x12, 0x34, 0xFF, 0xD9)

	return buf
}

// buildRAF places jpeg after a RAF header and appends some raw data.
func buildRAF(jpeg []byte) []byte {
	buf := make([]byte, testRAFHeaderSize)
	copy(buf, "FUJIFILMCCD-RAW 0201FF383501")
	copy(buf[rafCameraIDOffset:], testCameraID)
	copy(buf[rafDirectory:], testVersion)
	BigEndian.Binary().PutUint32(buf[rafJPEGOffset:], testRAFHeaderSize)
	BigEndian.Binary().PutUint32(buf[rafJPEGOffset+4:], uint32(len(jpeg)))

	buf = append(buf, jpeg...)

	return append(buf, make([]byte, 64)...)
}

// rafFixture describes a synthetic RAF file.
type rafFixture struct {
	order ByteOrder
	thumb []byte
	ifd1  func(off, length uint32) []IFDEntry
	app0  bool
	sig   string // Exif signature, "Exif" if empty
}

func (f rafFixture) build() []byte {
	sig := f.sig
	if sig == "" {
		sig = exifSignature
	}

	return buildRAF(buildJPEG(buildTIFF(f.order, f.ifd1, f.thumb), f.app0, sig))
}

// testThumbnail encodes a w x h gradient as JPEG.
func testThumbnail(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode failed: %v", err)
	}

	return buf.Bytes()
}
