package rafthumb

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/gen2brain/jpegn"
)

// Codec decodes the thumbnail JPEG and encodes it as PNG.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

// DefaultCodec decodes with jpegn and encodes with image/png.
var DefaultCodec Codec = defaultCodec{}

type defaultCodec struct{}

// Decode keeps the image in its native color space, so gray thumbnails stay gray.
// jpegn falls back to image/jpeg for progressive and CMYK input.
func (defaultCodec) Decode(r io.Reader) (image.Image, error) {
	return jpegn.Decode(r, &jpegn.Options{UpsampleMethod: jpegn.NearestNeighbor})
}

func (defaultCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}

	return enc.Encode(w, img)
}

// resolveThumbnail turns the TIFF-relative descriptor into a file-relative
// range and checks that it lies within the full-size JPEG.
func resolveThumbnail(jpeg ByteRange, tiffBase uint32, desc ThumbnailDescriptor) (ByteRange, error) {
	start := uint64(jpeg.Offset) + uint64(tiffBase) + uint64(desc.Offset)
	end := start + uint64(desc.Length)

	if desc.Length == 0 || end > jpeg.End() || end > math.MaxUint32 {
		return ByteRange{}, fmt.Errorf("%w: thumbnail range [%d, %d) outside JPEG range %s",
			ErrInvalidContainer, start, end, jpeg)
	}

	return ByteRange{Offset: uint32(start), Length: desc.Length}, nil
}

// transcode decodes a JPEG and re-encodes it as PNG at the same resolution.
func transcode(codec Codec, data []byte) ([]byte, error) {
	img, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	if err := codec.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageEncodeFailed, err)
	}

	return buf.Bytes(), nil
}
