// Package casts rewrites every cast expression produced by the front end into
// an explicit runtime operation. The target runtime has no checked casts and
// no fixed-width numeric truncation, so reference and array casts become calls
// into the rt.Casts/rt.Arrays helpers and primitive casts either disappear or
// become rt.Primitives conversion calls.
package casts

import (
	"errors"
	"fmt"

	"javelin/internal/hir"
	"javelin/internal/types"
)

// ErrInvariant tags internal invariant violations: an earlier pipeline stage
// handed the pass a malformed tree. These abort the unit and are never
// retried; they are bugs, not user errors.
var ErrInvariant = errors.New("cast normalization invariant violation")

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Runtime helper methods synthesized by the pass.
const (
	isInstanceMethod = "$isInstance"
	castToMethod     = "to"
	arrayCastMethod  = "$castTo"
)

// Normalize rewrites every cast node in the module, children before parents.
// It must run exactly once per unit: re-running it would treat the cast
// wrappers it produced for reference and array casts as fresh casts.
func Normalize(m *hir.Module) error {
	if m == nil {
		return nil
	}
	if m.TypeInterner == nil {
		return invariantf("module %q has no type interner", m.Name)
	}
	n := &normalizer{
		interner: m.TypeInterner,
		builtins: m.TypeInterner.Builtins(),
	}
	return hir.RewriteExprs(m, n.rewriteExpr)
}

type normalizer struct {
	interner *types.Interner
	builtins types.Builtins
}

// rewriteExpr dispatches a cast node on its target descriptor's category.
// Reference is the fallback bucket: anything that is neither array nor
// primitive is treated as a reference cast. Non-cast nodes pass through.
func (n *normalizer) rewriteExpr(e *hir.Expr) (*hir.Expr, error) {
	if e.Kind != hir.ExprCast {
		return e, nil
	}
	data, ok := e.Data.(hir.CastData)
	if !ok {
		return nil, invariantf("cast node carries %T payload", e.Data)
	}
	if data.Value == nil {
		return nil, invariantf("cast node at %s has no subexpression", e.Span)
	}
	target, ok := n.interner.Lookup(data.TargetTy)
	if !ok {
		return nil, invariantf("cast node at %s has unresolved target type", e.Span)
	}
	switch target.Kind {
	case types.KindArray:
		return n.rewriteArrayCast(e, data, target)
	case types.KindPrimitive:
		return n.rewritePrimitiveCast(e, data, target)
	default:
		return n.rewriteReferenceCast(e, data, target)
	}
}

// rewriteReferenceCast turns (T) expr into
//
//	(T) rt.Casts.to(expr, T.$isInstance(expr))
//
// The outer cast node keeps the static type visible to later stages; the
// runtime check itself is deferred to execution and reported there as a
// class-cast failure.
func (n *normalizer) rewriteReferenceCast(e *hir.Expr, data hir.CastData, target types.Type) (*hir.Expr, error) {
	if target.Kind != types.KindReference {
		return nil, invariantf("reference cast at %s has %s target", e.Span, target.Kind)
	}

	// T.$isInstance(expr)
	isInstance := &hir.Expr{
		Kind: hir.ExprCall,
		Type: n.builtins.Boolean,
		Span: e.Span,
		Data: hir.CallData{
			Target: data.TargetTy,
			Method: isInstanceMethod,
			Static: true,
			Args:   []*hir.Expr{data.Value},
		},
	}

	// rt.Casts.to(expr, T.$isInstance(expr))
	castCall := &hir.Expr{
		Kind: hir.ExprCall,
		Type: data.TargetTy,
		Span: e.Span,
		Data: hir.CallData{
			Target: n.builtins.Casts,
			Method: castToMethod,
			Static: true,
			Args:   []*hir.Expr{data.Value, isInstance},
		},
	}

	return &hir.Expr{
		Kind: hir.ExprCast,
		Type: data.TargetTy,
		Span: e.Span,
		Data: hir.CastData{Value: castCall, TargetTy: data.TargetTy},
	}, nil
}

// rewriteArrayCast turns (L[]...[]) expr into
//
//	(L[]...[]) rt.Arrays.$castTo(expr, L, dims)
//
// Array covariance cannot be checked structurally in the target runtime, so
// the leaf element type and the rank are passed as explicit operands.
func (n *normalizer) rewriteArrayCast(e *hir.Expr, data hir.CastData, target types.Type) (*hir.Expr, error) {
	if target.Kind != types.KindArray {
		return nil, invariantf("array cast at %s has %s target", e.Span, target.Kind)
	}

	leaf := &hir.Expr{
		Kind: hir.ExprTypeRef,
		Type: target.Elem,
		Span: e.Span,
		Data: hir.TypeRefData{Ref: target.Elem},
	}
	dims := &hir.Expr{
		Kind: hir.ExprLiteral,
		Type: n.builtins.Int,
		Span: e.Span,
		Data: hir.LiteralData{Kind: hir.LiteralInt, IntValue: int64(target.Dims)},
	}

	// rt.Arrays.$castTo(expr, leafType, dims)
	castCall := &hir.Expr{
		Kind: hir.ExprCall,
		Type: data.TargetTy,
		Span: e.Span,
		Data: hir.CallData{
			Target: n.builtins.Arrays,
			Method: arrayCastMethod,
			Static: true,
			Args:   []*hir.Expr{data.Value, leaf, dims},
		},
	}

	return &hir.Expr{
		Kind: hir.ExprCast,
		Type: data.TargetTy,
		Span: e.Span,
		Data: hir.CastData{Value: castCall, TargetTy: data.TargetTy},
	}, nil
}

// rewritePrimitiveCast drops the cast when the conversion is representable
// natively (see canElide) and otherwise emits
//
//	rt.Primitives.$cast<From>To<To>(expr)
//
// The helper's declared return type already equals the target, so unlike the
// reference and array rules the call is not re-wrapped in a cast node.
func (n *normalizer) rewritePrimitiveCast(e *hir.Expr, data hir.CastData, target types.Type) (*hir.Expr, error) {
	if target.Kind != types.KindPrimitive {
		return nil, invariantf("primitive cast at %s has %s target", e.Span, target.Kind)
	}

	from := n.interner.PrimOf(data.Value.Type)
	if from == types.PrimInvalid {
		return nil, invariantf("primitive cast at %s from non-primitive operand %s",
			e.Span, n.interner.String(data.Value.Type))
	}
	to := target.Prim

	if canElide(from, to) {
		return data.Value, nil
	}

	return &hir.Expr{
		Kind: hir.ExprCall,
		Type: data.TargetTy,
		Span: e.Span,
		Data: hir.CallData{
			Target: n.builtins.Primitives,
			Method: castMethodName(from, to),
			Static: true,
			Args:   []*hir.Expr{data.Value},
		},
	}, nil
}
