// Package testkit holds invariant checks shared by tests and the pipeline's
// --verify mode.
package testkit

import (
	"fmt"

	"javelin/internal/hir"
	"javelin/internal/types"
)

// CheckNormalizedCasts verifies the contract cast normalization promises to
// code generation: every cast node left in the tree is a static-type wrapper
// around a runtime check call, and no primitive cast survives.
//  1. a cast node's target is never primitive (those were elided or turned
//     into bare rt.Primitives calls)
//  2. a cast node's subexpression is a static call to rt.Casts.to or
//     rt.Arrays.$castTo whose declared type equals the cast's target
func CheckNormalizedCasts(m *hir.Module) error {
	if m == nil || m.TypeInterner == nil {
		return fmt.Errorf("nil module or interner")
	}
	b := m.TypeInterner.Builtins()
	check := func(e *hir.Expr) (*hir.Expr, error) {
		if e.Kind != hir.ExprCast {
			return e, nil
		}
		data, ok := e.Data.(hir.CastData)
		if !ok {
			return nil, fmt.Errorf("cast node at %s carries %T payload", e.Span, e.Data)
		}
		target, ok := m.TypeInterner.Lookup(data.TargetTy)
		if !ok {
			return nil, fmt.Errorf("cast node at %s has unresolved target", e.Span)
		}
		if target.Kind == types.KindPrimitive {
			return nil, fmt.Errorf("primitive cast to %s survived normalization at %s",
				m.TypeInterner.String(data.TargetTy), e.Span)
		}
		call, ok := data.Value.Data.(hir.CallData)
		if data.Value.Kind != hir.ExprCall || !ok {
			return nil, fmt.Errorf("cast node at %s wraps %s, want runtime check call",
				e.Span, data.Value.Kind)
		}
		if !call.Static || (call.Target != b.Casts && call.Target != b.Arrays) {
			return nil, fmt.Errorf("cast node at %s wraps call to %s.%s, want a cast helper",
				e.Span, m.TypeInterner.String(call.Target), call.Method)
		}
		if data.Value.Type != data.TargetTy {
			return nil, fmt.Errorf("cast node at %s wraps call of type %s, want %s",
				e.Span, m.TypeInterner.String(data.Value.Type), m.TypeInterner.String(data.TargetTy))
		}
		return e, nil
	}
	return hir.RewriteExprs(m, check)
}
