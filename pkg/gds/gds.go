// Package gds implements an in-memory GDSII layout database: a library of
// named cells holding polygon, path, text and reference elements, with a
// binary stream reader and writer.
//
// Coordinates are int32 database units on a 1 nm grid (the UNITS record is
// written as 0.001 user units per database unit, 1e-9 m per database unit).
// Rotation angles are degrees counter-clockwise.
package gds

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for library operations.
var (
	// ErrDuplicateCell is returned when adding a cell whose name is taken.
	ErrDuplicateCell = errors.New("duplicate cell name")

	// ErrUnknownCell is returned when looking up a cell that does not exist.
	ErrUnknownCell = errors.New("unknown cell")
)

// LayerDatatype identifies one drawing plane of a layout.
type LayerDatatype struct {
	Layer    int16
	Datatype int16
}

func (ld LayerDatatype) String() string {
	return fmt.Sprintf("(%d, %d)", ld.Layer, ld.Datatype)
}

// Point is a coordinate in database units.
type Point struct {
	X, Y int32
}

// Boundary is a filled polygon on a single layer/datatype plane.
// The writer closes the ring; XY holds the distinct vertices.
type Boundary struct {
	Layer    int16
	Datatype int16
	XY       []Point
}

// Rect builds a rectangular boundary from two opposite corners.
func Rect(layer, datatype int16, x1, y1, x2, y2 int32) *Boundary {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return &Boundary{
		Layer:    layer,
		Datatype: datatype,
		XY:       []Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
	}
}

// BoundingBox returns the axis-aligned bounds of the polygon.
// ok is false for a boundary with no vertices.
func (b *Boundary) BoundingBox() (min, max Point, ok bool) {
	if len(b.XY) == 0 {
		return Point{}, Point{}, false
	}
	min, max = b.XY[0], b.XY[0]
	for _, p := range b.XY[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, true
}

// Translate shifts every vertex by (dx, dy).
func (b *Boundary) Translate(dx, dy int32) {
	for i := range b.XY {
		b.XY[i].X += dx
		b.XY[i].Y += dy
	}
}

// Path is a wire of the given width along the XY centerline.
type Path struct {
	Layer    int16
	Datatype int16
	Width    int32
	XY       []Point
}

// Text is a GDSII TEXT annotation element. It carries no geometry of its
// own; tools render it with their own fonts. The Texttype field plays the
// datatype role for remapping.
type Text struct {
	Layer    int16
	Texttype int16
	Origin   Point
	String   string
}

// Reference places another cell, by name, with an optional transform.
// When Columns and Rows are both positive the reference is an array (AREF)
// and ColSpacing/RowSpacing give the full displacement vectors from the
// origin to the opposite corners of the array lattice.
type Reference struct {
	Cell          string
	Origin        Point
	Rotation      float64 // degrees counter-clockwise
	Magnification float64 // 0 means unset (1x)
	Reflect       bool    // mirror about the x axis before rotating
	Columns       int16
	Rows          int16
	ColSpacing    Point
	RowSpacing    Point
}

// Cell is a named container of elements.
type Cell struct {
	Name       string
	Boundaries []*Boundary
	Paths      []*Path
	Texts      []*Text
	References []*Reference
}

// Add appends elements to the cell. Unsupported element types panic;
// callers construct elements with this package's types only.
func (c *Cell) Add(elems ...any) {
	for _, e := range elems {
		switch v := e.(type) {
		case *Boundary:
			c.Boundaries = append(c.Boundaries, v)
		case *Path:
			c.Paths = append(c.Paths, v)
		case *Text:
			c.Texts = append(c.Texts, v)
		case *Reference:
			c.References = append(c.References, v)
		default:
			panic(fmt.Sprintf("gds: cannot add element of type %T", e))
		}
	}
}

// Library is an ordered collection of cells with unique names.
type Library struct {
	Name      string
	UserUnit  float64 // user units per database unit
	MeterUnit float64 // meters per database unit

	cells []*Cell
	index map[string]*Cell
}

// NewLibrary creates an empty library on the default 1 nm grid.
func NewLibrary(name string) *Library {
	return &Library{
		Name:      name,
		UserUnit:  1e-3,
		MeterUnit: 1e-9,
		index:     make(map[string]*Cell),
	}
}

// Cells returns the library's cells in insertion order.
// The slice is shared; callers must not reorder it.
func (l *Library) Cells() []*Cell {
	return l.cells
}

// Cell returns the named cell.
func (l *Library) Cell(name string) (*Cell, bool) {
	c, ok := l.index[name]
	return c, ok
}

// NewCell creates, registers and returns an empty cell.
func (l *Library) NewCell(name string) (*Cell, error) {
	c := &Cell{Name: name}
	if err := l.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Add registers existing cells, e.g. when merging another library in.
// No cell is added if any name collides.
func (l *Library) Add(cells ...*Cell) error {
	for _, c := range cells {
		if _, ok := l.index[c.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCell, c.Name)
		}
	}
	if l.index == nil {
		l.index = make(map[string]*Cell)
	}
	for _, c := range cells {
		l.cells = append(l.cells, c)
		l.index[c.Name] = c
	}
	return nil
}

// TopLevel returns the cells not referenced by any other cell, in
// insertion order.
func (l *Library) TopLevel() []*Cell {
	referenced := make(map[string]bool)
	for _, c := range l.cells {
		for _, r := range c.References {
			referenced[r.Cell] = true
		}
	}
	var top []*Cell
	for _, c := range l.cells {
		if !referenced[c.Name] {
			top = append(top, c)
		}
	}
	return top
}

// LayerDatatypes returns the set of layer/datatype pairs in use across all
// cells. Text elements contribute their layer/texttype pair.
func (l *Library) LayerDatatypes() map[LayerDatatype]bool {
	set := make(map[LayerDatatype]bool)
	for _, c := range l.cells {
		for _, b := range c.Boundaries {
			set[LayerDatatype{b.Layer, b.Datatype}] = true
		}
		for _, p := range c.Paths {
			set[LayerDatatype{p.Layer, p.Datatype}] = true
		}
		for _, t := range c.Texts {
			set[LayerDatatype{t.Layer, t.Texttype}] = true
		}
	}
	return set
}

// Remap rewrites the layer/datatype pair of every element whose current
// pair is a key of table. Pairs absent from the table are untouched. The
// whole library is rewritten in one pass.
func (l *Library) Remap(table map[LayerDatatype]LayerDatatype) {
	if len(table) == 0 {
		return
	}
	for _, c := range l.cells {
		for _, b := range c.Boundaries {
			if to, ok := table[LayerDatatype{b.Layer, b.Datatype}]; ok {
				b.Layer, b.Datatype = to.Layer, to.Datatype
			}
		}
		for _, p := range c.Paths {
			if to, ok := table[LayerDatatype{p.Layer, p.Datatype}]; ok {
				p.Layer, p.Datatype = to.Layer, to.Datatype
			}
		}
		for _, t := range c.Texts {
			if to, ok := table[LayerDatatype{t.Layer, t.Texttype}]; ok {
				t.Layer, t.Texttype = to.Layer, to.Datatype
			}
		}
	}
}

// SortPairs returns the pairs of a set sorted by layer then datatype,
// for stable display.
func SortPairs(set map[LayerDatatype]bool) []LayerDatatype {
	pairs := make([]LayerDatatype, 0, len(set))
	for ld := range set {
		pairs = append(pairs, ld)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Layer != pairs[j].Layer {
			return pairs[i].Layer < pairs[j].Layer
		}
		return pairs[i].Datatype < pairs[j].Datatype
	})
	return pairs
}
