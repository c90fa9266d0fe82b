package rafthumb

import "fmt"

// ByteRange is an offset and length relative to a named base, such as the
// start of the file or the start of the TIFF body.
type ByteRange struct {
	Offset uint32
	Length uint32
}

// End returns the offset one past the last byte of the range.
// It is computed in 64 bits so it cannot wrap.
func (r ByteRange) End() uint64 {
	return uint64(r.Offset) + uint64(r.Length)
}

// within reports whether the range is non-empty and fits in size bytes.
func (r ByteRange) within(size int) bool {
	return r.Length > 0 && r.End() <= uint64(size)
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Offset, r.End())
}

// view is a borrowed, bounded window into the input buffer.
// Every read of an offset taken from the input goes through check.
type view struct {
	name string
	data []byte
}

// check fails with ErrInvalidContainer unless n bytes at off are inside the view.
func (v view) check(off uint64, n uint64) error {
	if off+n < off || off+n > uint64(len(v.data)) {
		return fmt.Errorf("%w: %s read of %d bytes at offset %d exceeds length %d",
			ErrInvalidContainer, v.name, n, off, len(v.data))
	}

	return nil
}

func (v view) bytes(off uint64, n uint64) ([]byte, error) {
	if err := v.check(off, n); err != nil {
		return nil, err
	}

	return v.data[off : off+n], nil
}

func (v view) uint16(order ByteOrder, off uint64) (uint16, error) {
	b, err := v.bytes(off, 2)
	if err != nil {
		return 0, err
	}

	return order.Uint16(b), nil
}

func (v view) uint32(order ByteOrder, off uint64) (uint32, error) {
	b, err := v.bytes(off, 4)
	if err != nil {
		return 0, err
	}

	return order.Uint32(b), nil
}
