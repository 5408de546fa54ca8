package mask

import "github.com/nanofab/reticle/pkg/gds"

// Resolution is the outcome of layer conflict detection between a user
// design and the template.
type Resolution struct {
	// Conflicts lists the layer/datatype pairs used by both designs,
	// sorted for display. Empty when the designs are disjoint.
	Conflicts []gds.LayerDatatype

	// Table remaps every template pair (including the reserved barcode
	// pair) onto the consolidated safe layer, keyed by datatype. Nil when
	// there is no conflict.
	Table map[gds.LayerDatatype]gds.LayerDatatype

	// TargetLayer is where all generated barcode, label and date
	// geometry must go: the reserved layer when clean, the consolidated
	// layer after a remap.
	TargetLayer int16
}

// Remapped reports whether the template must be rewritten before merging.
func (r Resolution) Remapped() bool { return r.Table != nil }

// Resolve computes a collision-free layer assignment. The reserved pair is
// treated as in use by the template. On conflict, every template pair
// moves to one new layer above the user design's highest, preserving
// datatypes; the table must be applied to the template exactly once,
// before any annotation geometry is generated.
func Resolve(userPairs, templatePairs map[gds.LayerDatatype]bool, reserved gds.LayerDatatype) Resolution {
	all := make(map[gds.LayerDatatype]bool, len(templatePairs)+1)
	for ld := range templatePairs {
		all[ld] = true
	}
	all[reserved] = true

	conflicts := make(map[gds.LayerDatatype]bool)
	for ld := range userPairs {
		if all[ld] {
			conflicts[ld] = true
		}
	}
	if len(conflicts) == 0 {
		return Resolution{TargetLayer: reserved.Layer}
	}

	var maxLayer int16
	for ld := range userPairs {
		if ld.Layer > maxLayer {
			maxLayer = ld.Layer
		}
	}
	newLayer := maxLayer + 1

	table := make(map[gds.LayerDatatype]gds.LayerDatatype, len(all))
	for ld := range all {
		table[ld] = gds.LayerDatatype{Layer: newLayer, Datatype: ld.Datatype}
	}
	return Resolution{
		Conflicts:   gds.SortPairs(conflicts),
		Table:       table,
		TargetLayer: newLayer,
	}
}
