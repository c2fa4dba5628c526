package hir

import (
	"javelin/internal/source"
	"javelin/internal/types"
)

// ExprKind enumerates IR expression kinds.
// The front end produces these fully typed; middle-end passes replace nodes
// but never mutate one in place.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, long, float, bool, string, null).
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a local variable or parameter reference.
	ExprVarRef
	// ExprUnaryOp represents unary operators (-, !, ~, +).
	ExprUnaryOp
	// ExprBinaryOp represents binary operators (+, -, ==, <<, ...).
	ExprBinaryOp
	// ExprCall represents a static or instance method call.
	ExprCall
	// ExprFieldAccess represents field access (expr.field).
	ExprFieldAccess
	// ExprIndex represents array indexing (expr[index]).
	ExprIndex
	// ExprArrayLit represents array literals ({a, b, c}).
	ExprArrayLit
	// ExprNew represents object construction (new T(...)).
	ExprNew
	// ExprCond represents the ternary conditional (c ? a : b).
	ExprCond
	// ExprCast represents a cast (T) expr as produced by the front end.
	// Cast normalization replaces every one of these; after that pass a
	// remaining cast node is only a static-type annotation around a runtime
	// helper call.
	ExprCast
	// ExprTypeRef represents a type mentioned in operand position, such as
	// the element-type argument of a runtime array cast.
	ExprTypeRef
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprCall:
		return "Call"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprIndex:
		return "Index"
	case ExprArrayLit:
		return "ArrayLit"
	case ExprNew:
		return "New"
	case ExprCond:
		return "Cond"
	case ExprCast:
		return "Cast"
	case ExprTypeRef:
		return "TypeRef"
	default:
		return "Unknown"
	}
}

// Expr represents an IR expression with type information.
type Expr struct {
	Kind ExprKind
	Type types.TypeID // Static type, always resolved by the front end
	Span source.Span  // Source location for diagnostics
	Data ExprData     // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralNull
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind        LiteralKind
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
	StringValue string
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Name string
	Slot int // Local slot index assigned by the front end, -1 if unknown
}

func (VarRefData) exprData() {}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
	UnaryPlus
)

// UnaryOpData holds data for ExprUnaryOp.
type UnaryOpData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryOpData) exprData() {}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinUShr
)

// BinaryOpData holds data for ExprBinaryOp.
type BinaryOpData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryOpData) exprData() {}

// CallData holds data for ExprCall.
//
// Calls name a method on an enclosing type rather than evaluating a callee
// expression: the Java-like source language has no first-class functions, and
// the passes that synthesize runtime helper calls only ever need
// "invoke Method on Target with Args in order".
type CallData struct {
	Target types.TypeID // Enclosing type the method is scoped to
	Method string
	Static bool
	Recv   *Expr // Receiver, nil for static calls
	Args   []*Expr
}

func (CallData) exprData() {}

// FieldAccessData holds data for ExprFieldAccess.
type FieldAccessData struct {
	Object *Expr
	Field  string
}

func (FieldAccessData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// ArrayLitData holds data for ExprArrayLit.
type ArrayLitData struct {
	Elements []*Expr
}

func (ArrayLitData) exprData() {}

// NewData holds data for ExprNew.
type NewData struct {
	Class types.TypeID
	Args  []*Expr
}

func (NewData) exprData() {}

// CondData holds data for ExprCond.
type CondData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (CondData) exprData() {}

// CastData holds data for ExprCast.
type CastData struct {
	Value    *Expr
	TargetTy types.TypeID
}

func (CastData) exprData() {}

// TypeRefData holds data for ExprTypeRef.
type TypeRefData struct {
	Ref types.TypeID
}

func (TypeRefData) exprData() {}
