// Package unitfile reads and writes .jvu compilation-unit files: the
// msgpack-encoded typed IR the front end hands to the middle end. The wire
// layer is a flat mirror of the hir model; interface payloads never touch the
// encoder.
package unitfile

import (
	"javelin/internal/source"
)

// SchemaVersion is bumped whenever the wire format changes shape.
const SchemaVersion uint16 = 1

// Ext is the conventional unit-file extension.
const Ext = ".jvu"

type wireSpan struct {
	File  uint32
	Start uint32
	End   uint32
}

func spanToWire(s source.Span) wireSpan {
	return wireSpan{File: uint32(s.File), Start: s.Start, End: s.End}
}

func spanFromWire(s wireSpan) source.Span {
	return source.Span{File: source.FileID(s.File), Start: s.Start, End: s.End}
}

// wireType mirrors types.Type with table indexes instead of TypeIDs.
type wireType struct {
	Kind uint8
	Prim uint8
	Elem uint32 // descriptor-table index of the array leaf
	Dims uint32
	Name uint32 // name-table index for references
}

type wireUnit struct {
	Schema uint16
	Name   string
	Files  []string
	Names  []string
	Types  []wireType
	Funcs  []wireFunc
}

type wireParam struct {
	Name string
	Slot int32
	Type uint32
	Span wireSpan
}

type wireFunc struct {
	Name    string
	Owner   uint32
	Flags   uint32
	Result  uint32
	Params  []wireParam
	HasBody bool
	Body    []wireStmt
	Span    wireSpan
}

// wireStmt flattens every hir statement payload into one record; Kind decides
// which fields are meaningful.
type wireStmt struct {
	Kind uint8
	Span wireSpan

	Name string // Let
	Slot int32  // Let
	Type uint32 // Let

	A *wireExpr // Let value / Expr / Assign target / Return value / If cond / While cond
	B *wireExpr // Assign value

	Then    []wireStmt // If
	HasElse bool
	Else    []wireStmt // If
	Block   []wireStmt // While body / Block
}

// wireExpr flattens every hir expression payload into one record; Kind
// decides which fields are meaningful.
type wireExpr struct {
	Kind uint8
	Type uint32
	Span wireSpan

	Lit   uint8   // Literal
	Int   int64   // Literal
	Float float64 // Literal
	Bool  bool    // Literal
	Str   string  // Literal

	Name string // VarRef
	Slot int32  // VarRef

	Op uint8 // UnaryOp / BinaryOp

	Target uint32 // Call enclosing type
	Method string // Call
	Static bool   // Call
	Recv   *wireExpr
	Args   []*wireExpr // Call / ArrayLit elements / New args

	A *wireExpr // operand / left / object / cond / cast value
	B *wireExpr // right / index / then
	C *wireExpr // else

	Ref uint32 // TypeRef / Cast target / New class
}
