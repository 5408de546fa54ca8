package mask

import (
	"time"

	"github.com/nanofab/reticle/pkg/gds"
)

// dateLayout is the build date format stamped onto the reticle.
const dateLayout = "2006-01-02"

// center translates polys so their union bounding box is centered on the
// origin. An empty slice (or one with only empty polygons) is left as-is.
func center(polys []*gds.Boundary) {
	var min, max gds.Point
	found := false
	for _, p := range polys {
		pmin, pmax, ok := p.BoundingBox()
		if !ok {
			continue
		}
		if !found {
			min, max = pmin, pmax
			found = true
			continue
		}
		if pmin.X < min.X {
			min.X = pmin.X
		}
		if pmin.Y < min.Y {
			min.Y = pmin.Y
		}
		if pmax.X > max.X {
			max.X = pmax.X
		}
		if pmax.Y > max.Y {
			max.Y = pmax.Y
		}
	}
	if !found {
		return
	}
	dx := -(min.X + max.X) / 2
	dy := -(min.Y + max.Y) / 2
	for _, p := range polys {
		p.Translate(dx, dy)
	}
}

// newTextCell renders text centered on the cell origin.
func newTextCell(lib *gds.Library, name, text string, size int32, plane gds.LayerDatatype) (*gds.Cell, error) {
	cell, err := lib.NewCell(name)
	if err != nil {
		return nil, err
	}
	polys := gds.RenderText(text, size, gds.Point{}, plane.Layer, plane.Datatype)
	center(polys)
	for _, p := range polys {
		cell.Add(p)
	}
	return cell, nil
}

// NewLabelCell renders the human-readable barcode caption into a fresh
// RETICLELABEL cell of lib.
func NewLabelCell(lib *gds.Library, text string, size int32, plane gds.LayerDatatype) (*gds.Cell, error) {
	return newTextCell(lib, LabelCellName, text, size, plane)
}

// NewDateCell renders the build date (YYYY-MM-DD) into a fresh DATE cell
// of lib.
func NewDateCell(lib *gds.Library, now time.Time, size int32, plane gds.LayerDatatype) (*gds.Cell, error) {
	return newTextCell(lib, DateCellName, now.Format(dateLayout), size, plane)
}
