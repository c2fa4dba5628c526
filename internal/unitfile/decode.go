package unitfile

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"javelin/internal/diag"
	"javelin/internal/hir"
	"javelin/internal/source"
	"javelin/internal/types"
)

// knownFuncFlags is the set of flag bits this schema understands. Newer
// front ends may set more; those are reported and dropped.
const knownFuncFlags = uint32(hir.FuncStatic | hir.FuncPublic | hir.FuncNative)

// Load reads a unit file from disk and decodes it.
// Non-fatal findings go to the reporter; a nil module with an error means the
// unit is unusable.
func Load(path string, r diag.Reporter) (*hir.Module, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unitfile: read %s: %w", path, err)
	}
	return Decode(data, path, r)
}

// Decode parses unit-file bytes into a module with a freshly seeded type
// interner. Descriptors are re-interned on the way in, so structurally equal
// wire entries collapse to one TypeID even if the producer failed to
// deduplicate them.
func Decode(data []byte, path string, r diag.Reporter) (*hir.Module, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	var u wireUnit
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unitfile: %s: %s: %w", path, diag.UnitMalformed, err)
	}
	if u.Schema != SchemaVersion {
		return nil, fmt.Errorf("unitfile: %s: %s: schema %d, expected %d",
			path, diag.UnitSchemaMismatch, u.Schema, SchemaVersion)
	}

	d := &decoder{
		unit:     &u,
		path:     path,
		reporter: r,
		interner: types.NewInterner(),
		resolved: make([]types.TypeID, len(u.Types)),
		visiting: make([]bool, len(u.Types)),
	}
	return d.module()
}

type decoder struct {
	unit     *wireUnit
	path     string
	reporter diag.Reporter
	interner *types.Interner
	resolved []types.TypeID
	visiting []bool
}

func (d *decoder) module() (*hir.Module, error) {
	files := source.NewFileTable()
	for _, p := range d.unit.Files {
		files.Add(p)
	}

	m := &hir.Module{
		Name:         d.unit.Name,
		Path:         d.path,
		TypeInterner: d.interner,
		Files:        files,
	}
	for i := range d.unit.Funcs {
		fn, err := d.fn(&d.unit.Funcs[i])
		if err != nil {
			return nil, err
		}
		m.Funcs = append(m.Funcs, fn)
	}
	if len(m.Funcs) == 0 {
		d.reporter.Report(diag.UnitEmptyModule, diag.SevWarning, source.Span{File: source.NoFileID},
			fmt.Sprintf("unit %q contains no functions", d.unit.Name), nil)
	}
	return m, nil
}

// typeID resolves a wire descriptor-table index to a TypeID in the fresh
// interner. Index 0 is the invalid sentinel and maps to NoTypeID.
func (d *decoder) typeID(idx uint32) (types.TypeID, error) {
	if idx == 0 {
		return types.NoTypeID, nil
	}
	if int(idx) >= len(d.unit.Types) {
		return types.NoTypeID, d.badTypeRef("descriptor index %d out of range", idx)
	}
	if d.resolved[idx] != types.NoTypeID {
		return d.resolved[idx], nil
	}
	if d.visiting[idx] {
		return types.NoTypeID, d.badTypeRef("descriptor index %d is part of a cycle", idx)
	}
	d.visiting[idx] = true
	defer func() { d.visiting[idx] = false }()

	wt := d.unit.Types[idx]
	var id types.TypeID
	switch types.Kind(wt.Kind) {
	case types.KindPrimitive:
		id = d.interner.Primitive(types.PrimKind(wt.Prim))
		if id == types.NoTypeID {
			return types.NoTypeID, d.badTypeRef("descriptor index %d names unknown primitive %d", idx, wt.Prim)
		}
	case types.KindReference:
		if int(wt.Name) >= len(d.unit.Names) {
			return types.NoTypeID, d.badTypeRef("descriptor index %d has name index %d out of range", idx, wt.Name)
		}
		id = d.interner.Reference(d.unit.Names[wt.Name])
	case types.KindArray:
		if wt.Dims == 0 {
			return types.NoTypeID, d.badTypeRef("descriptor index %d is an array with zero dimensions", idx)
		}
		leaf, err := d.typeID(wt.Elem)
		if err != nil {
			return types.NoTypeID, err
		}
		if leaf == types.NoTypeID {
			return types.NoTypeID, d.badTypeRef("descriptor index %d has invalid leaf", idx)
		}
		id = d.interner.Array(leaf, wt.Dims)
	default:
		return types.NoTypeID, d.badTypeRef("descriptor index %d has unknown kind %d", idx, wt.Kind)
	}
	d.resolved[idx] = id
	return id, nil
}

func (d *decoder) badTypeRef(format string, args ...any) error {
	return fmt.Errorf("unitfile: %s: %s: %s", d.path, diag.UnitBadTypeRef, fmt.Sprintf(format, args...))
}

func (d *decoder) fn(wf *wireFunc) (*hir.Func, error) {
	owner, err := d.typeID(wf.Owner)
	if err != nil {
		return nil, err
	}
	result, err := d.typeID(wf.Result)
	if err != nil {
		return nil, err
	}

	flags := wf.Flags
	if unknown := flags &^ knownFuncFlags; unknown != 0 {
		d.reporter.Report(diag.UnitUnknownFuncFlags, diag.SevWarning, spanFromWire(wf.Span),
			fmt.Sprintf("function %q carries unknown flag bits %#x", wf.Name, unknown), nil)
		flags &= knownFuncFlags
	}

	fn := &hir.Func{
		Name:   wf.Name,
		Owner:  owner,
		Span:   spanFromWire(wf.Span),
		Result: result,
		Flags:  hir.FuncFlags(flags),
	}
	for _, wp := range wf.Params {
		pt, err := d.typeID(wp.Type)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, hir.Param{
			Name: wp.Name,
			Slot: int(wp.Slot),
			Type: pt,
			Span: spanFromWire(wp.Span),
		})
	}
	if wf.HasBody {
		body, err := d.block(wf.Body, spanFromWire(wf.Span))
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}
	return fn, nil
}

func (d *decoder) block(stmts []wireStmt, span source.Span) (*hir.Block, error) {
	b := &hir.Block{Span: span}
	for i := range stmts {
		st, err := d.stmt(&stmts[i])
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, st)
	}
	return b, nil
}

func (d *decoder) stmt(ws *wireStmt) (hir.Stmt, error) {
	st := hir.Stmt{Kind: hir.StmtKind(ws.Kind), Span: spanFromWire(ws.Span)}
	switch st.Kind {
	case hir.StmtLet:
		ty, err := d.typeID(ws.Type)
		if err != nil {
			return hir.Stmt{}, err
		}
		value, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.LetData{Name: ws.Name, Slot: int(ws.Slot), Type: ty, Value: value}
	case hir.StmtExpr:
		expr, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.ExprStmtData{Expr: expr}
	case hir.StmtAssign:
		target, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		value, err := d.expr(ws.B)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.AssignData{Target: target, Value: value}
	case hir.StmtReturn:
		value, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.ReturnData{Value: value}
	case hir.StmtIf:
		cond, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		then, err := d.block(ws.Then, st.Span)
		if err != nil {
			return hir.Stmt{}, err
		}
		data := hir.IfStmtData{Cond: cond, Then: then}
		if ws.HasElse {
			els, err := d.block(ws.Else, st.Span)
			if err != nil {
				return hir.Stmt{}, err
			}
			data.Else = els
		}
		st.Data = data
	case hir.StmtWhile:
		cond, err := d.expr(ws.A)
		if err != nil {
			return hir.Stmt{}, err
		}
		body, err := d.block(ws.Block, st.Span)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.WhileData{Cond: cond, Body: body}
	case hir.StmtBlock:
		inner, err := d.block(ws.Block, st.Span)
		if err != nil {
			return hir.Stmt{}, err
		}
		st.Data = hir.BlockStmtData{Block: inner}
	case hir.StmtBreak:
		st.Data = hir.BreakData{}
	case hir.StmtContinue:
		st.Data = hir.ContinueData{}
	default:
		return hir.Stmt{}, fmt.Errorf("unitfile: %s: %s: unknown statement kind %d",
			d.path, diag.UnitMalformed, ws.Kind)
	}
	return st, nil
}

func (d *decoder) expr(we *wireExpr) (*hir.Expr, error) {
	if we == nil {
		return nil, nil
	}
	ty, err := d.typeID(we.Type)
	if err != nil {
		return nil, err
	}
	e := &hir.Expr{Kind: hir.ExprKind(we.Kind), Type: ty, Span: spanFromWire(we.Span)}
	switch e.Kind {
	case hir.ExprLiteral:
		e.Data = hir.LiteralData{
			Kind:        hir.LiteralKind(we.Lit),
			IntValue:    we.Int,
			FloatValue:  we.Float,
			BoolValue:   we.Bool,
			StringValue: we.Str,
		}
	case hir.ExprVarRef:
		e.Data = hir.VarRefData{Name: we.Name, Slot: int(we.Slot)}
	case hir.ExprUnaryOp:
		operand, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		e.Data = hir.UnaryOpData{Op: hir.UnaryOp(we.Op), Operand: operand}
	case hir.ExprBinaryOp:
		left, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(we.B)
		if err != nil {
			return nil, err
		}
		e.Data = hir.BinaryOpData{Op: hir.BinaryOp(we.Op), Left: left, Right: right}
	case hir.ExprCall:
		target, err := d.typeID(we.Target)
		if err != nil {
			return nil, err
		}
		recv, err := d.expr(we.Recv)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(we.Args)
		if err != nil {
			return nil, err
		}
		e.Data = hir.CallData{Target: target, Method: we.Method, Static: we.Static, Recv: recv, Args: args}
	case hir.ExprFieldAccess:
		object, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		e.Data = hir.FieldAccessData{Object: object, Field: we.Name}
	case hir.ExprIndex:
		object, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		index, err := d.expr(we.B)
		if err != nil {
			return nil, err
		}
		e.Data = hir.IndexData{Object: object, Index: index}
	case hir.ExprArrayLit:
		elems, err := d.exprs(we.Args)
		if err != nil {
			return nil, err
		}
		e.Data = hir.ArrayLitData{Elements: elems}
	case hir.ExprNew:
		class, err := d.typeID(we.Ref)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(we.Args)
		if err != nil {
			return nil, err
		}
		e.Data = hir.NewData{Class: class, Args: args}
	case hir.ExprCond:
		cond, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		then, err := d.expr(we.B)
		if err != nil {
			return nil, err
		}
		els, err := d.expr(we.C)
		if err != nil {
			return nil, err
		}
		e.Data = hir.CondData{Cond: cond, Then: then, Else: els}
	case hir.ExprCast:
		target, err := d.typeID(we.Ref)
		if err != nil {
			return nil, err
		}
		value, err := d.expr(we.A)
		if err != nil {
			return nil, err
		}
		e.Data = hir.CastData{Value: value, TargetTy: target}
	case hir.ExprTypeRef:
		ref, err := d.typeID(we.Ref)
		if err != nil {
			return nil, err
		}
		e.Data = hir.TypeRefData{Ref: ref}
	default:
		return nil, fmt.Errorf("unitfile: %s: %s: unknown expression kind %d",
			d.path, diag.UnitMalformed, we.Kind)
	}
	return e, nil
}

func (d *decoder) exprs(wes []*wireExpr) ([]*hir.Expr, error) {
	if len(wes) == 0 {
		return nil, nil
	}
	out := make([]*hir.Expr, 0, len(wes))
	for _, we := range wes {
		e, err := d.expr(we)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
