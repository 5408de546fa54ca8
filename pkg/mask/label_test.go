package mask

import (
	"testing"
	"time"

	"github.com/nanofab/reticle/pkg/gds"
)

func unionBox(t *testing.T, polys []*gds.Boundary) (gds.Point, gds.Point) {
	t.Helper()
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
		t.Fatal("no geometry")
	}
	return min, max
}

func TestNewLabelCellCentered(t *testing.T) {
	lib := gds.NewLibrary("test")
	plane := gds.LayerDatatype{Layer: 4, Datatype: 0}
	cell, err := NewLabelCell(lib, "AB12", 7000, plane)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Name != LabelCellName {
		t.Errorf("cell name = %q, want %q", cell.Name, LabelCellName)
	}
	if len(cell.Boundaries) == 0 {
		t.Fatal("label cell has no geometry")
	}

	// Centering rounds to the grid, so the box midpoint may be off by one
	// database unit.
	min, max := unionBox(t, cell.Boundaries)
	if cx := min.X + max.X; cx < -1 || cx > 1 {
		t.Errorf("x midpoint offset = %d, want 0", cx)
	}
	if cy := min.Y + max.Y; cy < -1 || cy > 1 {
		t.Errorf("y midpoint offset = %d, want 0", cy)
	}

	for _, b := range cell.Boundaries {
		if b.Layer != plane.Layer || b.Datatype != plane.Datatype {
			t.Fatalf("geometry on (%d, %d), want %v", b.Layer, b.Datatype, plane)
		}
	}
}

func TestNewDateCell(t *testing.T) {
	lib := gds.NewLibrary("test")
	now := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	plane := gds.LayerDatatype{Layer: 4, Datatype: 0}
	cell, err := NewDateCell(lib, now, 7000, plane)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Name != DateCellName {
		t.Errorf("cell name = %q, want %q", cell.Name, DateCellName)
	}

	// The stamp reads 2024-03-05: same glyph geometry as rendering the
	// formatted string directly, up to the centering shift.
	want := gds.RenderText("2024-03-05", 7000, gds.Point{}, plane.Layer, plane.Datatype)
	if len(cell.Boundaries) != len(want) {
		t.Errorf("got %d rects, want %d for %q", len(cell.Boundaries), len(want), "2024-03-05")
	}

	min, max := unionBox(t, cell.Boundaries)
	wmin, wmax := unionBox(t, want)
	if got, w := max.X-min.X, wmax.X-wmin.X; got != w {
		t.Errorf("stamp width = %d, want %d", got, w)
	}
}

func TestNewLabelCellDuplicate(t *testing.T) {
	lib := gds.NewLibrary("test")
	if _, err := NewLabelCell(lib, "A", 7000, gds.LayerDatatype{Layer: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLabelCell(lib, "B", 7000, gds.LayerDatatype{Layer: 4}); err == nil {
		t.Fatal("expected duplicate cell error")
	}
}
