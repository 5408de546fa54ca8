package mask

import (
	"testing"

	"github.com/nanofab/reticle/pkg/gds"
)

func TestRenderBarsGeometry(t *testing.T) {
	plane := gds.LayerDatatype{Layer: 4, Datatype: 0}
	tokens := []int32{200, -200, 450, -450, 200}
	rects := RenderBars(tokens, 1000, plane)

	if len(rects) != 3 {
		t.Fatalf("got %d rects, want one per positive token (3)", len(rects))
	}

	// The cursor advances by the magnitude of every token, so the last
	// bar's right edge sits at the total span.
	var span int32
	for _, tok := range tokens {
		if tok < 0 {
			tok = -tok
		}
		span += tok
	}
	last := rects[len(rects)-1]
	min, max, ok := last.BoundingBox()
	if !ok {
		t.Fatal("last rect has no vertices")
	}
	if max.X != span {
		t.Errorf("right edge = %d, want total span %d", max.X, span)
	}
	if min.Y != -500 || max.Y != 500 {
		t.Errorf("vertical extent [%d, %d], want [-500, 500]", min.Y, max.Y)
	}

	// Bars and gaps must tile without overlap: each rect starts where the
	// preceding tokens left the cursor.
	wantStarts := []int32{0, 400, 1300}
	wantWidths := []int32{200, 450, 200}
	for i, r := range rects {
		lo, hi, _ := r.BoundingBox()
		if lo.X != wantStarts[i] {
			t.Errorf("rect %d starts at %d, want %d", i, lo.X, wantStarts[i])
		}
		if hi.X-lo.X != wantWidths[i] {
			t.Errorf("rect %d width = %d, want %d", i, hi.X-lo.X, wantWidths[i])
		}
		if r.Layer != plane.Layer || r.Datatype != plane.Datatype {
			t.Errorf("rect %d on (%d, %d), want %v", i, r.Layer, r.Datatype, plane)
		}
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	if rects := RenderBars(nil, 1000, gds.LayerDatatype{Layer: 4}); len(rects) != 0 {
		t.Errorf("got %d rects for empty token stream", len(rects))
	}
}

func TestNewBarcodeCell(t *testing.T) {
	lib := gds.NewLibrary("test")
	cell, err := NewBarcodeCell(lib, []int32{200, -200, 450}, 1000, gds.LayerDatatype{Layer: 4})
	if err != nil {
		t.Fatal(err)
	}
	if cell.Name != BarcodeCellName {
		t.Errorf("cell name = %q, want %q", cell.Name, BarcodeCellName)
	}
	if len(cell.Boundaries) != 2 {
		t.Errorf("got %d boundaries, want 2", len(cell.Boundaries))
	}
	if got, ok := lib.Cell(BarcodeCellName); !ok || got != cell {
		t.Error("cell was not registered with the library")
	}
}
