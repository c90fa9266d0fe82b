package rafthumb

import "errors"

// Errors returned by the extraction pipeline. Each failure is wrapped with
// context, so test for the kind with errors.Is.
var (
	ErrInvalidContainer     = errors.New("not a valid RAF container")
	ErrInvalidJpeg          = errors.New("embedded JPEG has no SOI marker")
	ErrMissingApp1          = errors.New("embedded JPEG has no APP1 marker")
	ErrMissingExifTag       = errors.New("APP1 segment has no Exif signature")
	ErrInvalidByteOrder     = errors.New("invalid TIFF byte order")
	ErrMissingThumbnailTags = errors.New("thumbnail offset or length not found in IFD1")
	ErrImageDecodeFailed    = errors.New("thumbnail JPEG decoding failed")
	ErrImageEncodeFailed    = errors.New("PNG encoding failed")
)
