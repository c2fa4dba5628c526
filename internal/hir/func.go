package hir

import (
	"javelin/internal/source"
	"javelin/internal/types"
)

// FuncFlags represents method modifiers as a bitmask.
type FuncFlags uint32

const (
	// FuncStatic indicates a static method.
	FuncStatic FuncFlags = 1 << iota
	// FuncPublic indicates a public method.
	FuncPublic
	// FuncNative indicates a method provided by the runtime (no body).
	FuncNative
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// String returns a human-readable representation of flags.
func (f FuncFlags) String() string {
	s := ""
	if f.HasFlag(FuncPublic) {
		s += "public "
	}
	if f.HasFlag(FuncStatic) {
		s += "static "
	}
	if f.HasFlag(FuncNative) {
		s += "native "
	}
	return s
}

// Param represents a method parameter.
type Param struct {
	Name string
	Slot int // Local slot index, -1 if unknown
	Type types.TypeID
	Span source.Span
}

// Func represents a method body in the IR.
type Func struct {
	Name   string
	Owner  types.TypeID // Declaring class
	Span   source.Span
	Params []Param
	Result types.TypeID // NoTypeID for void
	Flags  FuncFlags
	Body   *Block // nil for native methods
}

// IsStatic returns true if this is a static method.
func (f *Func) IsStatic() bool {
	return f.Flags.HasFlag(FuncStatic)
}

// HasBody returns true if this method has a body.
func (f *Func) HasBody() bool {
	return f.Body != nil
}
