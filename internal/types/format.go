package types

import "strings"

// String renders a TypeID the way it would appear in source: "int",
// "rt.Casts", "long[][]".
func (in *Interner) String(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.SimpleName()
	case KindReference:
		return in.Name(t.Name)
	case KindArray:
		var b strings.Builder
		b.WriteString(in.String(t.Elem))
		for i := uint32(0); i < t.Dims; i++ {
			b.WriteString("[]")
		}
		return b.String()
	default:
		return "<invalid>"
	}
}

// SimpleName returns the unqualified name of id: the segment after the last
// dot for references, the primitive spelling otherwise.
func (in *Interner) SimpleName(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return ""
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.SimpleName()
	case KindReference:
		name := in.Name(t.Name)
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			return name[i+1:]
		}
		return name
	case KindArray:
		return in.SimpleName(t.Elem)
	default:
		return ""
	}
}
