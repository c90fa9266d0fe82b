package main

import (
	"fmt"
	"io"

	tiff "github.com/garyhouston/tiff66"

	"github.com/gen2brain/rafthumb"
)

// dumpTIFF prints every IFD reachable from IFD0 of the EXIF TIFF body.
// Field values are printed by tiff66, which always writes to standard output.
func dumpTIFF(w io.Writer, body []byte, t rafthumb.TIFF, limit uint32) (err error) {
	// Malformed maker notes can panic inside tiff66.
	defer func() {
		if val := recover(); val != nil {
			err = fmt.Errorf("dumping IFDs: %v", val)
		}
	}()

	root, err := tiff.GetIFDTree(body, t.Order.Binary(), t.IFD0Offset, tiff.TIFFSpace)
	if root != nil {
		printNode(w, root, limit)
	}

	return err
}

func printNode(w io.Writer, node *tiff.IFDNode, limit uint32) {
	fields := node.Fields
	space := node.GetSpace()

	fmt.Fprintln(w)
	if len(fields) != 1 {
		fmt.Fprintf(w, "%s IFD with %d entries:\n", space.Name(), len(fields))
	} else {
		fmt.Fprintf(w, "%s IFD with 1 entry:\n", space.Name())
	}

	var names map[tiff.Tag]string
	if space == tiff.TIFFSpace {
		names = tiff.TagNames
	}

	for i := range fields {
		fields[i].Print(node.Order, names, limit)
	}

	for _, id := range node.GetImageData() {
		if len(id.Segments) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s: %d segment(s), first has length %d\n", tiff.TagNames[id.OffsetTag], len(id.Segments), len(id.Segments[0]))
	}

	for _, sub := range node.SubIFDs {
		printNode(w, sub.Node, limit)
	}

	if node.Next != nil {
		printNode(w, node.Next, limit)
	}
}
