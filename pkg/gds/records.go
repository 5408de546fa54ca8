package gds

// GDSII stream records are a 4-byte header (big-endian uint16 length including
// the header, one record-type byte, one data-type byte) followed by payload.
// Record constants below combine record type and data type in one uint16, the
// way they appear on the wire.
const (
	recHeader       uint16 = 0x0002
	recBgnLib       uint16 = 0x0102
	recLibName      uint16 = 0x0206
	recUnits        uint16 = 0x0305
	recEndLib       uint16 = 0x0400
	recBgnStr       uint16 = 0x0502
	recStrName      uint16 = 0x0606
	recEndStr       uint16 = 0x0700
	recBoundary     uint16 = 0x0800
	recPath         uint16 = 0x0900
	recSRef         uint16 = 0x0A00
	recARef         uint16 = 0x0B00
	recText         uint16 = 0x0C00
	recLayer        uint16 = 0x0D02
	recDatatype     uint16 = 0x0E02
	recWidth        uint16 = 0x0F03
	recXY           uint16 = 0x1003
	recEndEl        uint16 = 0x1100
	recSName        uint16 = 0x1206
	recColRow       uint16 = 0x1302
	recTextType     uint16 = 0x1602
	recPresentation uint16 = 0x1701
	recString       uint16 = 0x1906
	recSTrans       uint16 = 0x1A01
	recMag          uint16 = 0x1B05
	recAngle        uint16 = 0x1C05
	recPathType     uint16 = 0x2102
	recBox          uint16 = 0x2D00
	recBoxType      uint16 = 0x2E02
	recPropAttr     uint16 = 0x2B02
	recPropValue    uint16 = 0x2C06
)

// sTransReflect is the STRANS bit flagging reflection about the x axis.
const sTransReflect uint16 = 0x8000

// recordName maps the record-type byte (high byte of the combined constant)
// to its stream-format name, for error messages.
var recordName = map[byte]string{
	0x00: "HEADER",
	0x01: "BGNLIB",
	0x02: "LIBNAME",
	0x03: "UNITS",
	0x04: "ENDLIB",
	0x05: "BGNSTR",
	0x06: "STRNAME",
	0x07: "ENDSTR",
	0x08: "BOUNDARY",
	0x09: "PATH",
	0x0A: "SREF",
	0x0B: "AREF",
	0x0C: "TEXT",
	0x0D: "LAYER",
	0x0E: "DATATYPE",
	0x0F: "WIDTH",
	0x10: "XY",
	0x11: "ENDEL",
	0x12: "SNAME",
	0x13: "COLROW",
	0x16: "TEXTTYPE",
	0x17: "PRESENTATION",
	0x19: "STRING",
	0x1A: "STRANS",
	0x1B: "MAG",
	0x1C: "ANGLE",
	0x21: "PATHTYPE",
	0x2B: "PROPATTR",
	0x2C: "PROPVALUE",
	0x2D: "BOX",
	0x2E: "BOXTYPE",
}

func recName(rec uint16) string {
	if n, ok := recordName[byte(rec>>8)]; ok {
		return n
	}
	return "UNKNOWN"
}
