package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Qualified names of the runtime support classes the cast pass targets.
const (
	CastsClassName      = "rt.Casts"
	ArraysClassName     = "rt.Arrays"
	PrimitivesClassName = "rt.Primitives"
)

// Builtins stores TypeIDs for the primitive kinds and the runtime support
// classes. They are interned once per compilation, so table lookups in later
// passes compare plain TypeIDs.
type Builtins struct {
	Boolean TypeID
	Byte    TypeID
	Char    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID

	Casts      TypeID
	Arrays     TypeID
	Primitives TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Two structurally equal descriptors always receive the same TypeID, which is
// what makes TypeID comparison a sound substitute for identity comparison of
// shared descriptor instances.
type Interner struct {
	types     []Type
	index     map[typeKey]TypeID
	names     []string
	nameIndex map[string]NameID
	builtins  Builtins
}

// NewInterner constructs an interner seeded with the built-in primitives and
// the runtime support classes.
func NewInterner() *Interner {
	in := &Interner{
		index:     make(map[typeKey]TypeID, 64),
		nameIndex: make(map[string]NameID, 16),
	}
	in.internRaw(Type{Kind: KindInvalid}) // reserve 0 as the invalid sentinel
	in.builtins.Boolean = in.Intern(MakePrimitive(PrimBoolean))
	in.builtins.Byte = in.Intern(MakePrimitive(PrimByte))
	in.builtins.Char = in.Intern(MakePrimitive(PrimChar))
	in.builtins.Short = in.Intern(MakePrimitive(PrimShort))
	in.builtins.Int = in.Intern(MakePrimitive(PrimInt))
	in.builtins.Long = in.Intern(MakePrimitive(PrimLong))
	in.builtins.Float = in.Intern(MakePrimitive(PrimFloat))
	in.builtins.Double = in.Intern(MakePrimitive(PrimDouble))
	in.builtins.Casts = in.Reference(CastsClassName)
	in.builtins.Arrays = in.Reference(ArraysClassName)
	in.builtins.Primitives = in.Reference(PrimitivesClassName)
	return in
}

// Builtins returns TypeIDs for the pre-interned types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitive returns the canonical TypeID for a primitive kind.
func (in *Interner) Primitive(p PrimKind) TypeID {
	switch p {
	case PrimBoolean:
		return in.builtins.Boolean
	case PrimByte:
		return in.builtins.Byte
	case PrimChar:
		return in.builtins.Char
	case PrimShort:
		return in.builtins.Short
	case PrimInt:
		return in.builtins.Int
	case PrimLong:
		return in.builtins.Long
	case PrimFloat:
		return in.builtins.Float
	case PrimDouble:
		return in.builtins.Double
	default:
		return NoTypeID
	}
}

// Reference interns a reference type by qualified name.
func (in *Interner) Reference(name string) TypeID {
	return in.Intern(Type{Kind: KindReference, Name: in.internName(name)})
}

// Array interns an array type with the given leaf and dimension count.
// A leaf that is itself an array is flattened into the dimension count, so
// "array of int[][]" and "int[][][]" intern to the same descriptor.
func (in *Interner) Array(leaf TypeID, dims uint32) TypeID {
	if dims == 0 {
		return leaf
	}
	if lt, ok := in.Lookup(leaf); ok && lt.Kind == KindArray {
		return in.Intern(MakeArray(lt.Elem, lt.Dims+dims))
	}
	return in.Intern(MakeArray(leaf, dims))
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

func (in *Interner) internName(name string) NameID {
	if id, ok := in.nameIndex[name]; ok {
		return id
	}
	lenNames, err := safecast.Conv[uint32](len(in.names))
	if err != nil {
		panic(fmt.Errorf("len(names) overflow: %w", err))
	}
	id := NameID(lenNames)
	in.names = append(in.names, name)
	in.nameIndex[name] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Name returns the qualified name behind a NameID.
func (in *Interner) Name(id NameID) string {
	if int(id) >= len(in.names) {
		return ""
	}
	return in.names[id]
}

// PrimOf returns the primitive kind behind id, or PrimInvalid when id does not
// name a primitive descriptor.
func (in *Interner) PrimOf(id TypeID) PrimKind {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindPrimitive {
		return PrimInvalid
	}
	return t.Prim
}

// Export returns copies of the descriptor table and the name table, indexed
// by TypeID and NameID respectively. Slot 0 of the descriptor table is the
// invalid sentinel. Used by the unit-file codec.
func (in *Interner) Export() ([]Type, []string) {
	typesCopy := make([]Type, len(in.types))
	copy(typesCopy, in.types)
	namesCopy := make([]string, len(in.names))
	copy(namesCopy, in.names)
	return typesCopy, namesCopy
}

// typeKey is the comparable map key form of a descriptor. Type itself is
// comparable, but the dedicated key type keeps the map contract independent
// from future descriptor fields that must not affect identity.
type typeKey Type
