package jsonval

import (
	"io"
	"strconv"
)

// Serializer renders a value tree as JSON text on an io.Writer. It is a
// Visitor that recurses through arrays and maps itself; map members are
// emitted in key order. Escaping is minimal: quote, newline and tab.
type Serializer struct {
	w       io.Writer
	err     error
	scratch [32]byte
}

var _ Visitor = (*Serializer)(nil)

// NewSerializer returns a Serializer writing to w.
func NewSerializer(w io.Writer) *Serializer {
	return &Serializer{w: w}
}

// Serialize writes the JSON encoding of v. The first write error is
// retained and returned; later visits become no-ops.
func (s *Serializer) Serialize(v *Value) error {
	v.Visit(s)
	return s.err
}

func (s *Serializer) VisitNull(*Value) {
	s.writeString("null")
}

func (s *Serializer) VisitBool(v *Value) {
	if v.b {
		s.writeString("true")
	} else {
		s.writeString("false")
	}
}

func (s *Serializer) VisitNumber(v *Value) {
	b := strconv.AppendFloat(s.scratch[:0], v.num, 'g', -1, 64)
	s.write(b)
}

func (s *Serializer) VisitString(v *Value) {
	s.writeQuoted(v.str.view())
}

func (s *Serializer) VisitArray(v *Value) {
	s.writeByte('[')
	for i, child := range v.elems() {
		if i > 0 {
			s.writeByte(',')
		}
		child.Visit(s)
	}
	s.writeByte(']')
}

func (s *Serializer) VisitMap(v *Value) {
	s.writeByte('{')
	for i, m := range v.members() {
		if i > 0 {
			s.writeByte(',')
		}
		s.writeQuoted(m.key.view())
		s.writeByte(':')
		m.val.Visit(s)
	}
	s.writeByte('}')
}

func (s *Serializer) writeQuoted(str string) {
	s.writeByte('"')
	start := 0
	for i := 0; i < len(str); i++ {
		var esc string
		switch str[i] {
		case '"':
			esc = `\"`
		case '\n':
			esc = `\n`
		case '\t':
			esc = `\t`
		default:
			continue
		}
		s.writeString(str[start:i])
		s.writeString(esc)
		start = i + 1
	}
	s.writeString(str[start:])
	s.writeByte('"')
}

func (s *Serializer) write(b []byte) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(b)
}

func (s *Serializer) writeString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *Serializer) writeByte(b byte) {
	s.scratch[0] = b
	s.write(s.scratch[:1])
}
