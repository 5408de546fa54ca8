package gds

import "testing"

func TestRecName(t *testing.T) {
	tests := []struct {
		kind uint16
		want string
	}{
		{recHeader, "HEADER"},
		{recBoundary, "BOUNDARY"},
		{recSTrans, "STRANS"},
		{recEndLib, "ENDLIB"},
		{0xFF00, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := recName(tt.kind); got != tt.want {
			t.Errorf("recName(%#04x) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRecordNameCoversAllConstants(t *testing.T) {
	kinds := []uint16{
		recHeader, recBgnLib, recLibName, recUnits, recEndLib,
		recBgnStr, recStrName, recEndStr,
		recBoundary, recPath, recSRef, recARef, recText,
		recLayer, recDatatype, recWidth, recXY, recEndEl,
		recSName, recColRow, recTextType, recPresentation,
		recString, recSTrans, recMag, recAngle, recPathType,
		recBox, recBoxType, recPropAttr, recPropValue,
	}
	for _, kind := range kinds {
		if _, ok := recordName[byte(kind>>8)]; !ok {
			t.Errorf("record %#04x has no name", kind)
		}
	}
}
