package mask

import (
	"errors"
	"fmt"
	"time"

	"github.com/nanofab/reticle/pkg/code39"
	"github.com/nanofab/reticle/pkg/gds"
)

// ErrNoTopCells is returned when the user design has no usable top-level
// cell. This marks the input file unusable; no retry is meaningful.
var ErrNoTopCells = errors.New("no valid top-level cell found")

// MissingCellError reports a template without the required design cell.
type MissingCellError struct {
	Cell string
}

func (e *MissingCellError) Error() string {
	return fmt.Sprintf("template is missing required cell %q", e.Cell)
}

// Options selects what Merge assembles.
type Options struct {
	// TopCell names the user design cell to merge. Empty means the sole
	// top-level cell; with several top-level cells it must be set.
	TopCell string

	// Scale is the reference magnification: ScaleReticle or ScaleWafer.
	Scale float64

	// Barcode is the string to encode and stamp. Lower case is accepted
	// and upper-cased.
	Barcode string

	// MLA adds the mirrored/rotated wrapper cell for MLA150 exposure.
	MLA bool

	// Geometry provides the placement constants; usually
	// DefaultGeometry, possibly with config overrides.
	Geometry Geometry

	// Now supplies the build date. Nil means time.Now.
	Now func() time.Time
}

// Result describes what a Merge produced.
type Result struct {
	// TopCell is the merged user cell's name.
	TopCell string

	// Barcode is the encoded string after normalization.
	Barcode string

	// Resolution is the layer conflict outcome that was applied.
	Resolution Resolution
}

// TopCells returns the user design's top-level cells, skipping KLayout
// context bookkeeping.
func TopCells(lib *gds.Library) []*gds.Cell {
	var tops []*gds.Cell
	for _, c := range lib.TopLevel() {
		if c.Name == contextInfoCell {
			continue
		}
		tops = append(tops, c)
	}
	return tops
}

// Merge assembles user into template per opts: it resolves layer
// conflicts, remaps the template once if needed, pulls the user cells in,
// references the chosen top cell at the requested magnification from the
// design cell, and stamps barcode, caption and build date. The template
// library is modified in place; the user library is not. All validation
// happens before the first mutation, so a returned error leaves template
// untouched.
func Merge(template, user *gds.Library, opts Options) (*Result, error) {
	barcode := code39.Normalize(opts.Barcode)
	tokens, err := code39.Encode(barcode)
	if err != nil {
		return nil, err
	}

	geo := opts.Geometry
	design, ok := template.Cell(geo.DesignCell)
	if !ok {
		return nil, &MissingCellError{Cell: geo.DesignCell}
	}

	topCell, err := chooseTopCell(user, opts.TopCell)
	if err != nil {
		return nil, err
	}

	// Name collisions would only surface mid-merge otherwise, after the
	// template has been remapped.
	generated := map[string]bool{BarcodeCellName: true, LabelCellName: true, DateCellName: true}
	if opts.MLA {
		generated[MLACellName] = true
	}
	for name := range generated {
		if _, taken := template.Cell(name); taken {
			return nil, fmt.Errorf("template already contains generated cell: %w: %q", gds.ErrDuplicateCell, name)
		}
	}
	for _, c := range user.Cells() {
		if _, taken := template.Cell(c.Name); taken || generated[c.Name] {
			return nil, fmt.Errorf("merge user design: %w: %q", gds.ErrDuplicateCell, c.Name)
		}
	}

	res := Resolve(user.LayerDatatypes(), template.LayerDatatypes(), geo.Reserved)
	template.Remap(res.Table)
	target := gds.LayerDatatype{Layer: res.TargetLayer, Datatype: geo.Reserved.Datatype}

	if err := template.Add(user.Cells()...); err != nil {
		return nil, fmt.Errorf("merge user design: %w", err)
	}
	design.Add(&gds.Reference{Cell: topCell.Name, Magnification: opts.Scale})

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	barcodeCell, err := NewBarcodeCell(template, tokens, geo.BarHeight, target)
	if err != nil {
		return nil, err
	}
	labelCell, err := NewLabelCell(template, barcode, geo.TextSize, target)
	if err != nil {
		return nil, err
	}
	dateCell, err := NewDateCell(template, now(), geo.TextSize, target)
	if err != nil {
		return nil, err
	}

	design.Add(
		&gds.Reference{
			Cell:     barcodeCell.Name,
			Origin:   gds.Point{X: geo.Barcode.X, Y: geo.Barcode.Y - geo.QuietZone},
			Rotation: -90,
		},
		&gds.Reference{Cell: labelCell.Name, Origin: geo.Label, Rotation: 90},
		&gds.Reference{Cell: dateCell.Name, Origin: geo.Date, Rotation: 90},
	)

	if opts.MLA {
		mla, err := template.NewCell(MLACellName)
		if err != nil {
			return nil, err
		}
		mla.Add(&gds.Reference{Cell: design.Name, Rotation: 180, Reflect: true})
	}

	return &Result{TopCell: topCell.Name, Barcode: barcode, Resolution: res}, nil
}

func chooseTopCell(user *gds.Library, name string) (*gds.Cell, error) {
	tops := TopCells(user)
	if len(tops) == 0 {
		return nil, ErrNoTopCells
	}
	if name == "" {
		if len(tops) > 1 {
			return nil, fmt.Errorf("design has %d top-level cells; one must be chosen", len(tops))
		}
		return tops[0], nil
	}
	for _, c := range tops {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a top-level cell", gds.ErrUnknownCell, name)
}
