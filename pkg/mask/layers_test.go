package mask

import (
	"testing"

	"github.com/nanofab/reticle/pkg/gds"
)

func pairSet(pairs ...gds.LayerDatatype) map[gds.LayerDatatype]bool {
	set := make(map[gds.LayerDatatype]bool, len(pairs))
	for _, ld := range pairs {
		set[ld] = true
	}
	return set
}

func TestResolveNoConflict(t *testing.T) {
	res := Resolve(
		pairSet(gds.LayerDatatype{Layer: 1, Datatype: 0}),
		pairSet(gds.LayerDatatype{Layer: 2, Datatype: 0}),
		gds.LayerDatatype{Layer: 4, Datatype: 0},
	)

	if res.Remapped() {
		t.Fatalf("unexpected remap table: %v", res.Table)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("conflicts = %v, want none", res.Conflicts)
	}
	if res.TargetLayer != 4 {
		t.Errorf("target layer = %d, want 4 (reserved)", res.TargetLayer)
	}
}

func TestResolveConflictWithReserved(t *testing.T) {
	res := Resolve(
		pairSet(gds.LayerDatatype{Layer: 4, Datatype: 0}),
		pairSet(gds.LayerDatatype{Layer: 2, Datatype: 0}),
		gds.LayerDatatype{Layer: 4, Datatype: 0},
	)

	if !res.Remapped() {
		t.Fatal("expected a remap table")
	}
	if res.TargetLayer != 5 {
		t.Errorf("target layer = %d, want 5", res.TargetLayer)
	}
	want := map[gds.LayerDatatype]gds.LayerDatatype{
		{Layer: 2, Datatype: 0}: {Layer: 5, Datatype: 0},
		{Layer: 4, Datatype: 0}: {Layer: 5, Datatype: 0},
	}
	if len(res.Table) != len(want) {
		t.Fatalf("table = %v, want %v", res.Table, want)
	}
	for from, to := range want {
		if res.Table[from] != to {
			t.Errorf("table[%v] = %v, want %v", from, res.Table[from], to)
		}
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0] != (gds.LayerDatatype{Layer: 4, Datatype: 0}) {
		t.Errorf("conflicts = %v, want [(4, 0)]", res.Conflicts)
	}
}

func TestResolvePreservesDatatypes(t *testing.T) {
	res := Resolve(
		pairSet(
			gds.LayerDatatype{Layer: 2, Datatype: 0},
			gds.LayerDatatype{Layer: 10, Datatype: 5},
		),
		pairSet(
			gds.LayerDatatype{Layer: 2, Datatype: 0},
			gds.LayerDatatype{Layer: 3, Datatype: 7},
		),
		gds.LayerDatatype{Layer: 4, Datatype: 0},
	)

	if res.TargetLayer != 11 {
		t.Fatalf("target layer = %d, want 11 (max user layer + 1)", res.TargetLayer)
	}
	for from, to := range res.Table {
		if to.Layer != 11 {
			t.Errorf("table[%v] moved to layer %d, want 11", from, to.Layer)
		}
		if to.Datatype != from.Datatype {
			t.Errorf("table[%v] changed datatype to %d", from, to.Datatype)
		}
	}
	// Every template pair plus the reserved pair must be covered.
	for _, from := range []gds.LayerDatatype{
		{Layer: 2, Datatype: 0},
		{Layer: 3, Datatype: 7},
		{Layer: 4, Datatype: 0},
	} {
		if _, ok := res.Table[from]; !ok {
			t.Errorf("table is missing template pair %v", from)
		}
	}
}

func TestResolveEmptyUserDesign(t *testing.T) {
	res := Resolve(
		pairSet(),
		pairSet(gds.LayerDatatype{Layer: 2, Datatype: 0}),
		gds.LayerDatatype{Layer: 4, Datatype: 0},
	)
	if res.Remapped() {
		t.Error("empty user design cannot conflict")
	}
	if res.TargetLayer != 4 {
		t.Errorf("target layer = %d, want 4", res.TargetLayer)
	}
}
