package jsonval

// Visitor receives a Value dispatched on its kind. Visiting an array or map
// does not descend automatically; the visitor decides whether to recurse
// over the children it reaches through Index, Get or Elems-style accessors.
type Visitor interface {
	VisitNull(v *Value)
	VisitBool(v *Value)
	VisitNumber(v *Value)
	VisitString(v *Value)
	VisitArray(v *Value)
	VisitMap(v *Value)
}

// Visit dispatches v to the visitor method matching its kind.
func (v *Value) Visit(vis Visitor) {
	switch v.kind {
	case KindNull:
		vis.VisitNull(v)
	case KindBool:
		vis.VisitBool(v)
	case KindNumber:
		vis.VisitNumber(v)
	case KindString:
		vis.VisitString(v)
	case KindArray:
		vis.VisitArray(v)
	case KindMap:
		vis.VisitMap(v)
	}
}
