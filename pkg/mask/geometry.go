// Package mask assembles a user design, a foundry reticle template and
// generated barcode annotations into one GDSII library.
//
// The placement constants follow the ASML reticle template convention: the
// scannable barcode sits on the right edge rotated onto the vertical, and
// the human-readable label and build date sit on the left edge.
package mask

import "github.com/nanofab/reticle/pkg/gds"

// mm is one millimeter in database units (1 nm grid).
const mm = 1_000_000

// Cell names created or required by the merge.
const (
	// DesignCellName is the template cell everything is assembled into.
	DesignCellName = "asml_template"

	// BarcodeCellName holds the scannable bar rectangles.
	BarcodeCellName = "BARCODE"

	// LabelCellName holds the human-readable barcode caption.
	LabelCellName = "RETICLELABEL"

	// DateCellName holds the build date.
	DateCellName = "DATE"

	// MLACellName wraps the design for MLA150 exposure.
	MLACellName = "for_the_mla"

	// contextInfoCell is KLayout bookkeeping, never a real top cell.
	contextInfoCell = "$$$CONTEXT_INFO$$$"
)

// Magnification factors for the two design scale conventions.
const (
	ScaleReticle = 1.0
	ScaleWafer   = 4.0
)

// Geometry holds the fixed physical placement values, pre-scaled to
// database units. All values have working defaults; a zero Geometry is not
// usable.
type Geometry struct {
	// Reserved is the layer/datatype pair dedicated to barcode geometry.
	// It counts as a template pair during conflict resolution even when
	// the template draws nothing on it.
	Reserved gds.LayerDatatype

	// DesignCell is the required template cell name.
	DesignCell string

	BarHeight int32 // bar extent across the scan direction
	QuietZone int32 // clear margin before the first bar
	TextSize  int32 // glyph height for label and date

	Barcode gds.Point // barcode reference point, before the quiet zone
	Label   gds.Point // human-readable caption origin
	Date    gds.Point // build date origin
}

// DefaultGeometry returns the ASML template placement values.
func DefaultGeometry() Geometry {
	return Geometry{
		Reserved:   gds.LayerDatatype{Layer: 4, Datatype: 0},
		DesignCell: DesignCellName,
		BarHeight:  5 * mm,
		QuietZone:  8 * mm,
		TextSize:   4 * mm,
		Barcode:    gds.Point{X: 69 * mm, Y: 53_300_000}, // 29.15 mm + 48.3/2 mm
		Label:      gds.Point{X: -69_500_000, Y: -37_500_000},
		Date:       gds.Point{X: -69_500_000, Y: 37_500_000},
	}
}
