package tzdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

// File format, big-endian:
//
//	magic   [4]byte "TZB1"
//	kind    uint8   0 = fixed, 1 = variable
//	class   uint8   provenance bits
//	name    uint16 length + bytes
//	fixed:    offset int32 seconds, save int32 seconds
//	variable: count uint32, then per transition:
//	          when int64 unix seconds, offset int32, save int32,
//	          abbrev uint8 length + bytes
var magic = [4]byte{'T', 'Z', 'B', '1'}

const (
	kindFixed    uint8 = 0
	kindVariable uint8 = 1
)

// CorruptError reports a zone file that exists but cannot be decoded. It is
// deliberately distinct from "not found": corruption must never be hidden
// behind a boolean existence check.
type CorruptError struct {
	Path   string
	Name   string
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("tzdb: corrupt zone file %q for %q: %s", e.Path, e.Name, e.Reason)
}

func corrupt(path, name, format string, args ...any) error {
	return &CorruptError{Path: path, Name: name, Reason: fmt.Sprintf(format, args...)}
}

// Encode writes z with provenance class c to w in the compiled zone format.
func Encode(w io.Writer, z zone.Zone, c class.Class) error {
	var buf bytes.Buffer
	buf.Write(magic[:])

	switch v := z.(type) {
	case *zone.Fixed:
		buf.WriteByte(kindFixed)
		buf.WriteByte(byte(c))
		if err := writeString16(&buf, v.Name()); err != nil {
			return err
		}
		writeSeconds32(&buf, v.Offset())
		writeSeconds32(&buf, v.Save())

	case *zone.Variable:
		buf.WriteByte(kindVariable)
		buf.WriteByte(byte(c))
		if err := writeString16(&buf, v.Name()); err != nil {
			return err
		}
		ts := v.Transitions()
		var count [4]byte
		binary.BigEndian.PutUint32(count[:], uint32(len(ts)))
		buf.Write(count[:])
		for _, tr := range ts {
			var when [8]byte
			binary.BigEndian.PutUint64(when[:], uint64(tr.When.Unix()))
			buf.Write(when[:])
			writeSeconds32(&buf, tr.Offset)
			writeSeconds32(&buf, tr.Save)
			if len(tr.Abbrev) > math.MaxUint8 {
				return fmt.Errorf("tzdb: abbreviation %q too long", tr.Abbrev)
			}
			buf.WriteByte(byte(len(tr.Abbrev)))
			buf.WriteString(tr.Abbrev)
		}

	default:
		return fmt.Errorf("tzdb: unsupported zone kind %v", z.Kind())
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Decode reads the compiled zone file at path. The stored display name must
// match the requested name; a mismatch means the database layout is corrupt.
// Returns the zone and its full class (structural bits unioned with the
// stored provenance bits).
func Decode(path, name string) (zone.Zone, class.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, class.None, err
	}
	r := &reader{path: path, name: name, data: data}

	var m [4]byte
	r.bytes(m[:])
	if r.err == nil && m != magic {
		return nil, class.None, corrupt(path, name, "bad magic %q", m)
	}
	kind := r.byte()
	prov := class.Class(r.byte())
	stored := r.string16()
	if r.err == nil && stored != name {
		return nil, class.None, corrupt(path, name, "file holds zone %q", stored)
	}

	var z zone.Zone
	switch kind {
	case kindFixed:
		offset := r.seconds32()
		save := r.seconds32()
		if r.err != nil {
			return nil, class.None, r.err
		}
		z = zone.NewFixed(name, offset, save)

	case kindVariable:
		count := r.uint32()
		if r.err == nil && int(count) > len(r.data) {
			return nil, class.None, corrupt(path, name, "transition count %d exceeds file size", count)
		}
		ts := make([]zone.Transition, 0, count)
		for i := uint32(0); i < count && r.err == nil; i++ {
			ts = append(ts, zone.Transition{
				When:   time.Unix(r.int64(), 0).UTC(),
				Offset: r.seconds32(),
				Save:   r.seconds32(),
				Abbrev: r.string8(),
			})
		}
		if r.err != nil {
			return nil, class.None, r.err
		}
		v, err := zone.NewVariable(name, ts)
		if err != nil {
			return nil, class.None, corrupt(path, name, "%v", err)
		}
		z = v

	default:
		if r.err != nil {
			return nil, class.None, r.err
		}
		return nil, class.None, corrupt(path, name, "unknown zone kind %d", kind)
	}

	if r.pos != len(r.data) {
		return nil, class.None, corrupt(path, name, "%d trailing bytes", len(r.data)-r.pos)
	}
	return z, class.Structural(z).Union(prov), nil
}

func writeString16(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("tzdb: zone name %q too long", s)
	}
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(s)))
	buf.Write(n[:])
	buf.WriteString(s)
	return nil
}

func writeSeconds32(buf *bytes.Buffer, d time.Duration) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(int32(d/time.Second)))
	buf.Write(b[:])
}

// reader is a cursor over a zone file's bytes. The first short read sticks
// in err; subsequent reads are no-ops.
type reader struct {
	path string
	name string
	data []byte
	pos  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = corrupt(r.path, r.name, "truncated at byte %d", r.pos)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) bytes(dst []byte) {
	if b := r.take(len(dst)); b != nil {
		copy(dst, b)
	}
}

func (r *reader) byte() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) uint32() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) int64() int64 {
	if b := r.take(8); b != nil {
		return int64(binary.BigEndian.Uint64(b))
	}
	return 0
}

func (r *reader) seconds32() time.Duration {
	if b := r.take(4); b != nil {
		return time.Duration(int32(binary.BigEndian.Uint32(b))) * time.Second
	}
	return 0
}

func (r *reader) string16() string {
	if b := r.take(2); b != nil {
		return string(r.take(int(binary.BigEndian.Uint16(b))))
	}
	return ""
}

func (r *reader) string8() string {
	if b := r.take(1); b != nil {
		return string(r.take(int(b[0])))
	}
	return ""
}
