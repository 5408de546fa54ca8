package mask

import "github.com/nanofab/reticle/pkg/gds"

// RenderBars converts a signed token sequence into axis-aligned rectangles
// on the given plane. A cursor starts at x=0 and advances by the magnitude
// of every token; positive tokens additionally emit a rectangle spanning
// the advance horizontally and barHeight centered on y=0 vertically. Gaps
// therefore consume exactly their width, keeping bars contiguous and
// non-overlapping.
func RenderBars(tokens []int32, barHeight int32, plane gds.LayerDatatype) []*gds.Boundary {
	var rects []*gds.Boundary
	var x int32
	for _, tok := range tokens {
		w := tok
		if w < 0 {
			w = -w
		}
		if tok > 0 {
			rects = append(rects, gds.Rect(plane.Layer, plane.Datatype, x, -barHeight/2, x+w, barHeight/2))
		}
		x += w
	}
	return rects
}

// NewBarcodeCell renders tokens into a fresh BARCODE cell of lib.
func NewBarcodeCell(lib *gds.Library, tokens []int32, barHeight int32, plane gds.LayerDatatype) (*gds.Cell, error) {
	cell, err := lib.NewCell(BarcodeCellName)
	if err != nil {
		return nil, err
	}
	for _, r := range RenderBars(tokens, barHeight, plane) {
		cell.Add(r)
	}
	return cell, nil
}
