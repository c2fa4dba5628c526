package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// NameID indexes the interner's qualified-name table.
type NameID uint32

// Kind enumerates the three descriptor categories.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindPrimitive covers the fixed set of numeric/boolean kinds.
	KindPrimitive
	// KindArray carries a leaf (innermost element) type and a dimension count.
	KindArray
	// KindReference carries a qualified class or interface name.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// PrimKind enumerates primitive types. The set is closed: the cast
// normalization table and the runtime helper names are both derived from it.
type PrimKind uint8

const (
	PrimInvalid PrimKind = iota
	PrimBoolean
	PrimByte
	PrimChar
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

// SimpleName returns the source-level spelling of the primitive kind.
func (p PrimKind) SimpleName() string {
	switch p {
	case PrimBoolean:
		return "boolean"
	case PrimByte:
		return "byte"
	case PrimChar:
		return "char"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	default:
		return fmt.Sprintf("PrimKind(%d)", p)
	}
}

func (p PrimKind) String() string {
	return p.SimpleName()
}

// Type is a compact descriptor for any middle-end type.
// Descriptors are immutable once interned; passes only read them.
type Type struct {
	Kind Kind
	Prim PrimKind // for KindPrimitive
	Elem TypeID   // leaf type for KindArray
	Dims uint32   // dimension count for KindArray (>= 1)
	Name NameID   // qualified name for KindReference
}

// MakePrimitive describes a primitive of the given kind.
func MakePrimitive(p PrimKind) Type {
	return Type{Kind: KindPrimitive, Prim: p}
}

// MakeArray describes an array with the given leaf type and dimension count.
// The leaf must not itself be an array; nesting is expressed through Dims.
func MakeArray(leaf TypeID, dims uint32) Type {
	return Type{Kind: KindArray, Elem: leaf, Dims: dims}
}
