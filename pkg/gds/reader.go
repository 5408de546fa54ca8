package gds

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrBadStream is wrapped by all structural parse failures.
var ErrBadStream = errors.New("malformed GDSII stream")

// ReadFile loads a GDSII library from path. A missing file is reported via
// the underlying *PathError, so callers can distinguish it with
// os.IsNotExist and offer a retry.
func ReadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lib, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lib, nil
}

// Read parses a GDSII stream into a Library. Records this package does not
// model (properties, box elements, presentation flags) are skipped.
func Read(r io.Reader) (*Library, error) {
	p := &parser{r: r, lib: NewLibrary("")}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.lib, nil
}

type parser struct {
	r   io.Reader
	lib *Library

	cell *Cell

	// Element under construction; at most one is non-nil between the
	// element record and its ENDEL.
	boundary *Boundary
	path     *Path
	text     *Text
	ref      *Reference
	skipElem bool // inside an unmodeled element (e.g. BOX)
}

// record is one decoded stream record.
type record struct {
	kind uint16
	data []byte
}

func (p *parser) next() (record, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(p.r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return record{}, fmt.Errorf("%w: truncated record header", ErrBadStream)
		}
		return record{}, err
	}
	size := binary.BigEndian.Uint16(hdr[:2])
	if size < 4 || size%2 != 0 {
		return record{}, fmt.Errorf("%w: record size %d", ErrBadStream, size)
	}
	rec := record{kind: binary.BigEndian.Uint16(hdr[2:])}
	if size > 4 {
		rec.data = make([]byte, size-4)
		if _, err := io.ReadFull(p.r, rec.data); err != nil {
			return record{}, fmt.Errorf("%w: truncated %s payload", ErrBadStream, recName(rec.kind))
		}
	}
	return rec, nil
}

func (p *parser) run() error {
	first, err := p.next()
	if err != nil {
		return err
	}
	if first.kind != recHeader {
		return fmt.Errorf("%w: expected HEADER, got %s", ErrBadStream, recName(first.kind))
	}

	for {
		rec, err := p.next()
		if err != nil {
			return err
		}
		switch rec.kind {
		case recEndLib:
			if p.cell != nil {
				return fmt.Errorf("%w: ENDLIB inside structure %q", ErrBadStream, p.cell.Name)
			}
			return nil
		case recBgnLib, recBgnStr, recPresentation, recPathType,
			recPropAttr, recPropValue:
			// Timestamps and flags we do not model.
		case recLibName:
			p.lib.Name = asciiString(rec.data)
		case recUnits:
			if len(rec.data) != 16 {
				return fmt.Errorf("%w: UNITS payload size %d", ErrBadStream, len(rec.data))
			}
			p.lib.UserUnit = fromReal8(binary.BigEndian.Uint64(rec.data[:8]))
			p.lib.MeterUnit = fromReal8(binary.BigEndian.Uint64(rec.data[8:]))
		case recStrName:
			c, err := p.lib.NewCell(asciiString(rec.data))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBadStream, err)
			}
			p.cell = c
		case recEndStr:
			if p.cell == nil {
				return fmt.Errorf("%w: ENDSTR outside structure", ErrBadStream)
			}
			p.cell = nil
		default:
			if err := p.element(rec); err != nil {
				return err
			}
		}
	}
}

// element dispatches records that belong to an element definition.
func (p *parser) element(rec record) error {
	if p.cell == nil && isElementStart(rec.kind) {
		return fmt.Errorf("%w: %s outside structure", ErrBadStream, recName(rec.kind))
	}
	if min := minPayload[rec.kind]; len(rec.data) < min {
		return fmt.Errorf("%w: %s payload size %d", ErrBadStream, recName(rec.kind), len(rec.data))
	}
	switch rec.kind {
	case recBoundary:
		p.boundary = &Boundary{}
	case recPath:
		p.path = &Path{}
	case recText:
		p.text = &Text{}
	case recSRef, recARef:
		p.ref = &Reference{}
	case recBox:
		p.skipElem = true
	case recLayer:
		v := recInt16(rec.data)
		switch {
		case p.boundary != nil:
			p.boundary.Layer = v
		case p.path != nil:
			p.path.Layer = v
		case p.text != nil:
			p.text.Layer = v
		}
	case recDatatype:
		v := recInt16(rec.data)
		switch {
		case p.boundary != nil:
			p.boundary.Datatype = v
		case p.path != nil:
			p.path.Datatype = v
		}
	case recTextType:
		if p.text != nil {
			p.text.Texttype = recInt16(rec.data)
		}
	case recWidth:
		if p.path != nil {
			p.path.Width = recInt32(rec.data)
		}
	case recSName:
		if p.ref != nil {
			p.ref.Cell = asciiString(rec.data)
		}
	case recSTrans:
		if p.ref != nil {
			p.ref.Reflect = binary.BigEndian.Uint16(rec.data)&sTransReflect != 0
		}
	case recMag:
		if p.ref != nil {
			p.ref.Magnification = fromReal8(binary.BigEndian.Uint64(rec.data))
		}
	case recAngle:
		if p.ref != nil {
			p.ref.Rotation = fromReal8(binary.BigEndian.Uint64(rec.data))
		}
	case recColRow:
		if p.ref != nil {
			p.ref.Columns = recInt16(rec.data[:2])
			p.ref.Rows = recInt16(rec.data[2:4])
		}
	case recString:
		if p.text != nil {
			p.text.String = asciiString(rec.data)
		}
	case recXY:
		return p.elementXY(rec.data)
	case recEndEl:
		return p.endElement()
	case recBoxType:
		// part of a skipped BOX element
	default:
		// Unknown record kinds are skipped for forward compatibility.
	}
	return nil
}

// minPayload guards the fixed-size element records against truncation.
var minPayload = map[uint16]int{
	recLayer:    2,
	recDatatype: 2,
	recTextType: 2,
	recWidth:    4,
	recSTrans:   2,
	recMag:      8,
	recAngle:    8,
	recColRow:   4,
}

func isElementStart(kind uint16) bool {
	switch kind {
	case recBoundary, recPath, recText, recSRef, recARef, recBox:
		return true
	}
	return false
}

func (p *parser) elementXY(data []byte) error {
	if len(data)%8 != 0 {
		return fmt.Errorf("%w: XY payload size %d", ErrBadStream, len(data))
	}
	pts := make([]Point, len(data)/8)
	for i := range pts {
		pts[i].X = recInt32(data[i*8:])
		pts[i].Y = recInt32(data[i*8+4:])
	}
	switch {
	case p.boundary != nil:
		// The stream closes the ring explicitly; drop the repeated vertex.
		if n := len(pts); n > 1 && pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		p.boundary.XY = pts
	case p.path != nil:
		p.path.XY = pts
	case p.text != nil:
		if len(pts) > 0 {
			p.text.Origin = pts[0]
		}
	case p.ref != nil:
		if len(pts) == 0 {
			return fmt.Errorf("%w: reference without origin", ErrBadStream)
		}
		p.ref.Origin = pts[0]
		if len(pts) >= 3 {
			p.ref.ColSpacing = pts[1]
			p.ref.RowSpacing = pts[2]
		}
	case p.skipElem:
	default:
		return fmt.Errorf("%w: XY outside element", ErrBadStream)
	}
	return nil
}

func (p *parser) endElement() error {
	switch {
	case p.boundary != nil:
		p.cell.Boundaries = append(p.cell.Boundaries, p.boundary)
		p.boundary = nil
	case p.path != nil:
		p.cell.Paths = append(p.cell.Paths, p.path)
		p.path = nil
	case p.text != nil:
		p.cell.Texts = append(p.cell.Texts, p.text)
		p.text = nil
	case p.ref != nil:
		if p.ref.Cell == "" {
			return fmt.Errorf("%w: reference without SNAME", ErrBadStream)
		}
		p.cell.References = append(p.cell.References, p.ref)
		p.ref = nil
	case p.skipElem:
		p.skipElem = false
	default:
		return fmt.Errorf("%w: ENDEL outside element", ErrBadStream)
	}
	return nil
}

func recInt16(data []byte) int16 {
	return int16(binary.BigEndian.Uint16(data))
}

func recInt32(data []byte) int32 {
	return int32(binary.BigEndian.Uint32(data))
}

// asciiString decodes an ASCII record payload, trimming the NUL byte used to
// pad odd-length strings.
func asciiString(data []byte) string {
	return strings.TrimRight(string(data), "\x00")
}
