// Package rafthumb extracts the embedded thumbnail JPEG of a Fujifilm RAF file.
//
// The RAF header points at a full-size JPEG, whose EXIF APP1 segment holds a
// TIFF body. IFD1 of that body gives the offset and length of the thumbnail.
// Every offset read from the file is range checked before use.
package rafthumb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gen2brain/jpegn"
	"github.com/golang/glog"
)

// Options specifies extraction parameters.
type Options struct {
	// PNG transcodes the thumbnail to PNG instead of returning the raw JPEG bytes.
	PNG bool
	// ScanMarkers scans past leading JPEG segments (e.g. APP0/JFIF) to find the
	// EXIF APP1 segment. By default APP1 must immediately follow SOI.
	ScanMarkers bool
	// Verbose logs the parsed header and ranges with glog.
	Verbose bool
	// Codec is used for PNG output. If nil, DefaultCodec is used.
	Codec Codec
}

func options(opts []*Options) *Options {
	if len(opts) > 0 && opts[0] != nil {
		return opts[0]
	}

	return &Options{}
}

func (o *Options) codec() Codec {
	if o.Codec != nil {
		return o.Codec
	}

	return DefaultCodec
}

func (o *Options) logf(format string, args ...any) {
	if o.Verbose {
		glog.InfoDepth(1, fmt.Sprintf(format, args...))
	}
}

// Info is the result of parsing a RAF file up to the thumbnail range.
type Info struct {
	Header Header
	App1   App1
	TIFF   TIFF
	// TIFFBody is the TIFF body, relative to the file start.
	TIFFBody ByteRange
	// Thumbnail is the thumbnail JPEG, relative to the file start.
	Thumbnail ByteRange
	// Exif holds the camera settings of the full-size JPEG. It is filled by
	// Parse when the EXIF data can be decoded, and is nil otherwise.
	Exif *jpegn.Exif
}

// Parse runs the extraction pipeline on a whole RAF file and returns what it found,
// without producing any output.
func Parse(buf []byte, opts ...*Options) (*Info, error) {
	info, err := parse(buf, options(opts))
	if err != nil {
		return nil, err
	}

	jpeg := buf[info.Header.JPEG.Offset:info.Header.JPEG.End()]
	if exif, err := jpegn.DecodeExif(bytes.NewReader(jpeg)); err == nil {
		info.Exif = exif
	}

	return info, nil
}

func parse(buf []byte, o *Options) (*Info, error) {
	hdr, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	o.logf("%s image, version %s", hdr.CameraID, hdr.Version)
	o.logf("jpeg at offset %d, length %d", hdr.JPEG.Offset, hdr.JPEG.Length)

	jpeg := buf[hdr.JPEG.Offset:hdr.JPEG.End()]

	app1, err := LocateApp1(jpeg, o.ScanMarkers)
	if err != nil {
		return nil, err
	}

	body := jpeg[app1.TIFF.Offset:app1.TIFF.End()]

	tiff, err := WalkTIFF(body)
	if err != nil {
		return nil, err
	}

	thumb, err := resolveThumbnail(hdr.JPEG, app1.TIFF.Offset, tiff.Thumbnail)
	if err != nil {
		return nil, err
	}

	o.logf("thumbnail of size %d is at offset %d", tiff.Thumbnail.Length, tiff.Thumbnail.Offset)

	return &Info{
		Header: *hdr,
		App1:   *app1,
		TIFF:   *tiff,
		TIFFBody: ByteRange{
			Offset: hdr.JPEG.Offset + app1.TIFF.Offset,
			Length: app1.TIFF.Length,
		},
		Thumbnail: thumb,
	}, nil
}

// Extract returns the thumbnail of a whole RAF file held in buf.
//
// With default options the thumbnail JPEG is returned as a sub-slice of buf.
// With Options.PNG it is decoded and returned as PNG data.
func Extract(buf []byte, opts ...*Options) ([]byte, error) {
	o := options(opts)

	info, err := parse(buf, o)
	if err != nil {
		return nil, err
	}

	thumb := buf[info.Thumbnail.Offset:info.Thumbnail.End()]
	if !o.PNG {
		return thumb, nil
	}

	return transcode(o.codec(), thumb)
}

// Write extracts the thumbnail of buf and writes it to w.
// Nothing is written if extraction fails.
func Write(w io.Writer, buf []byte, opts ...*Options) error {
	data, err := Extract(buf, opts...)
	if err != nil {
		return err
	}

	n, err := w.Write(data)
	if err != nil {
		return err
	}

	if n != len(data) {
		return io.ErrShortWrite
	}

	return nil
}
