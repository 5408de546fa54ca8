package gds

import (
	"errors"
	"testing"
)

func TestRectNormalizesCorners(t *testing.T) {
	r := Rect(1, 0, 10, 20, -10, -20)
	min, max, ok := r.BoundingBox()
	if !ok {
		t.Fatal("empty bounding box for rectangle")
	}
	if min != (Point{-10, -20}) || max != (Point{10, 20}) {
		t.Errorf("bounds = %v..%v, want (-10,-20)..(10,20)", min, max)
	}
	if len(r.XY) != 4 {
		t.Errorf("rectangle has %d vertices, want 4", len(r.XY))
	}
}

func TestBoundaryTranslate(t *testing.T) {
	r := Rect(0, 0, 0, 0, 10, 10)
	r.Translate(-5, 3)
	min, max, _ := r.BoundingBox()
	if min != (Point{-5, 3}) || max != (Point{5, 13}) {
		t.Errorf("translated bounds = %v..%v", min, max)
	}
}

func TestLibraryAddDuplicate(t *testing.T) {
	lib := NewLibrary("test")
	if _, err := lib.NewCell("TOP"); err != nil {
		t.Fatal(err)
	}
	_, err := lib.NewCell("TOP")
	if !errors.Is(err, ErrDuplicateCell) {
		t.Errorf("duplicate NewCell error = %v, want ErrDuplicateCell", err)
	}
}

func TestTopLevel(t *testing.T) {
	lib := NewLibrary("test")
	top, _ := lib.NewCell("TOP")
	child, _ := lib.NewCell("CHILD")
	grandchild, _ := lib.NewCell("GRANDCHILD")
	top.Add(&Reference{Cell: child.Name})
	child.Add(&Reference{Cell: grandchild.Name})
	other, _ := lib.NewCell("OTHER")

	tops := lib.TopLevel()
	if len(tops) != 2 {
		t.Fatalf("TopLevel() returned %d cells, want 2", len(tops))
	}
	if tops[0] != top || tops[1] != other {
		t.Errorf("TopLevel() = [%s %s], want [TOP OTHER]", tops[0].Name, tops[1].Name)
	}
}

func TestLayerDatatypes(t *testing.T) {
	lib := NewLibrary("test")
	c, _ := lib.NewCell("TOP")
	c.Add(
		Rect(1, 0, 0, 0, 1, 1),
		Rect(1, 0, 2, 2, 3, 3),
		Rect(2, 1, 0, 0, 1, 1),
		&Path{Layer: 3, Datatype: 0, Width: 10, XY: []Point{{0, 0}, {5, 0}}},
		&Text{Layer: 5, Texttype: 2, String: "note"},
	)

	set := lib.LayerDatatypes()
	want := []LayerDatatype{{1, 0}, {2, 1}, {3, 0}, {5, 2}}
	if len(set) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(set), len(want))
	}
	for _, ld := range want {
		if !set[ld] {
			t.Errorf("missing pair %v", ld)
		}
	}
}

func TestRemap(t *testing.T) {
	lib := NewLibrary("test")
	c, _ := lib.NewCell("TOP")
	c.Add(
		Rect(2, 0, 0, 0, 1, 1),
		Rect(7, 3, 0, 0, 1, 1), // untouched
		&Path{Layer: 2, Datatype: 0, XY: []Point{{0, 0}, {1, 0}}},
		&Text{Layer: 2, Texttype: 0, String: "x"},
	)

	lib.Remap(map[LayerDatatype]LayerDatatype{
		{2, 0}: {9, 0},
	})

	set := lib.LayerDatatypes()
	if set[LayerDatatype{2, 0}] {
		t.Error("pair (2,0) still present after remap")
	}
	if !set[LayerDatatype{9, 0}] {
		t.Error("pair (9,0) missing after remap")
	}
	if !set[LayerDatatype{7, 3}] {
		t.Error("unrelated pair (7,3) was disturbed")
	}
}

func TestSortPairs(t *testing.T) {
	set := map[LayerDatatype]bool{
		{4, 0}: true,
		{1, 2}: true,
		{1, 0}: true,
	}
	got := SortPairs(set)
	want := []LayerDatatype{{1, 0}, {1, 2}, {4, 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortPairs = %v, want %v", got, want)
		}
	}
}
