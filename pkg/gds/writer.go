package gds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// gdsVersion is the stream format version written in the HEADER record.
const gdsVersion int16 = 600

// WriteFile serializes the library to path. The stream is written to a
// uniquely named temporary file in the same directory and renamed into
// place on success, so a failed write never leaves a truncated output
// behind.
func (l *Library) WriteFile(path string) error {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	bw := bufio.NewWriter(f)
	if err := l.Write(bw); err == nil {
		err = bw.Flush()
	} else {
		bw.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Write serializes the library as a GDSII stream.
func (l *Library) Write(w io.Writer) error {
	e := &encoder{w: w, now: time.Now()}

	e.record(recHeader, int16Data(gdsVersion))
	e.record(recBgnLib, e.timestamp())
	e.record(recLibName, asciiData(l.Name))

	userUnit, meterUnit := l.UserUnit, l.MeterUnit
	if userUnit == 0 {
		userUnit = 1e-3
	}
	if meterUnit == 0 {
		meterUnit = 1e-9
	}
	units := make([]byte, 16)
	binary.BigEndian.PutUint64(units[:8], toReal8(userUnit))
	binary.BigEndian.PutUint64(units[8:], toReal8(meterUnit))
	e.record(recUnits, units)

	for _, c := range l.cells {
		e.cell(c)
	}
	e.record(recEndLib, nil)
	return e.err
}

// encoder writes records and keeps the first error, so callers can emit a
// whole stream and check once.
type encoder struct {
	w   io.Writer
	now time.Time
	err error
}

func (e *encoder) record(kind uint16, data []byte) {
	if e.err != nil {
		return
	}
	if len(data)%2 != 0 {
		e.err = fmt.Errorf("odd %s payload length %d", recName(kind), len(data))
		return
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(len(data)+4))
	binary.BigEndian.PutUint16(hdr[2:], kind)
	if _, err := e.w.Write(hdr[:]); err != nil {
		e.err = err
		return
	}
	if len(data) > 0 {
		if _, err := e.w.Write(data); err != nil {
			e.err = err
		}
	}
}

// timestamp encodes the modification and access times (identical here) as
// the twelve int16 values BGNLIB and BGNSTR expect.
func (e *encoder) timestamp() []byte {
	t := e.now
	fields := []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
	data := make([]byte, 0, 24)
	for i := 0; i < 2; i++ {
		for _, f := range fields {
			data = append(data, byte(f>>8), byte(f))
		}
	}
	return data
}

func (e *encoder) cell(c *Cell) {
	e.record(recBgnStr, e.timestamp())
	e.record(recStrName, asciiData(c.Name))
	for _, b := range c.Boundaries {
		e.boundary(b)
	}
	for _, p := range c.Paths {
		e.path(p)
	}
	for _, t := range c.Texts {
		e.text(t)
	}
	for _, r := range c.References {
		e.reference(r)
	}
	e.record(recEndStr, nil)
}

func (e *encoder) boundary(b *Boundary) {
	e.record(recBoundary, nil)
	e.record(recLayer, int16Data(b.Layer))
	e.record(recDatatype, int16Data(b.Datatype))
	// Close the ring by repeating the first vertex.
	pts := b.XY
	if len(pts) > 0 {
		pts = append(append([]Point(nil), pts...), pts[0])
	}
	e.record(recXY, xyData(pts))
	e.record(recEndEl, nil)
}

func (e *encoder) path(p *Path) {
	e.record(recPath, nil)
	e.record(recLayer, int16Data(p.Layer))
	e.record(recDatatype, int16Data(p.Datatype))
	if p.Width != 0 {
		e.record(recWidth, int32Data(p.Width))
	}
	e.record(recXY, xyData(p.XY))
	e.record(recEndEl, nil)
}

func (e *encoder) text(t *Text) {
	e.record(recText, nil)
	e.record(recLayer, int16Data(t.Layer))
	e.record(recTextType, int16Data(t.Texttype))
	e.record(recXY, xyData([]Point{t.Origin}))
	e.record(recString, asciiData(t.String))
	e.record(recEndEl, nil)
}

func (e *encoder) reference(r *Reference) {
	array := r.Columns > 0 && r.Rows > 0
	if array {
		e.record(recARef, nil)
	} else {
		e.record(recSRef, nil)
	}
	e.record(recSName, asciiData(r.Cell))

	if r.Reflect || r.Magnification != 0 && r.Magnification != 1 || r.Rotation != 0 {
		var flags uint16
		if r.Reflect {
			flags = sTransReflect
		}
		e.record(recSTrans, []byte{byte(flags >> 8), byte(flags)})
		if r.Magnification != 0 && r.Magnification != 1 {
			mag := make([]byte, 8)
			binary.BigEndian.PutUint64(mag, toReal8(r.Magnification))
			e.record(recMag, mag)
		}
		if r.Rotation != 0 {
			angle := make([]byte, 8)
			binary.BigEndian.PutUint64(angle, toReal8(r.Rotation))
			e.record(recAngle, angle)
		}
	}

	if array {
		e.record(recColRow, append(int16Data(r.Columns), int16Data(r.Rows)...))
		e.record(recXY, xyData([]Point{r.Origin, r.ColSpacing, r.RowSpacing}))
	} else {
		e.record(recXY, xyData([]Point{r.Origin}))
	}
	e.record(recEndEl, nil)
}

func int16Data(v int16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func int32Data(v int32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func xyData(pts []Point) []byte {
	data := make([]byte, 0, len(pts)*8)
	for _, p := range pts {
		data = append(data, int32Data(p.X)...)
		data = append(data, int32Data(p.Y)...)
	}
	return data
}

// asciiData encodes a string payload, NUL-padding to even length.
func asciiData(s string) []byte {
	if len(s)%2 == 0 {
		return []byte(s)
	}
	return append([]byte(s), 0)
}
