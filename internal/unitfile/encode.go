package unitfile

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"javelin/internal/hir"
)

// Encode serializes a module to unit-file bytes.
func Encode(m *hir.Module) ([]byte, error) {
	u, err := toWire(m)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(u)
}

// Save encodes the module and writes it to path.
func Save(path string, m *hir.Module) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func toWire(m *hir.Module) (*wireUnit, error) {
	if m == nil {
		return nil, fmt.Errorf("unitfile: nil module")
	}
	if m.TypeInterner == nil {
		return nil, fmt.Errorf("unitfile: module %q has no type interner", m.Name)
	}

	tbl, names := m.TypeInterner.Export()
	wireTypes := make([]wireType, len(tbl))
	for i, t := range tbl {
		wireTypes[i] = wireType{
			Kind: uint8(t.Kind),
			Prim: uint8(t.Prim),
			Elem: uint32(t.Elem),
			Dims: t.Dims,
			Name: uint32(t.Name),
		}
	}

	u := &wireUnit{
		Schema: SchemaVersion,
		Name:   m.Name,
		Files:  m.Files.Paths(),
		Names:  names,
		Types:  wireTypes,
	}
	for _, fn := range m.Funcs {
		wf, err := funcToWire(fn)
		if err != nil {
			return nil, err
		}
		u.Funcs = append(u.Funcs, wf)
	}
	return u, nil
}

func funcToWire(fn *hir.Func) (wireFunc, error) {
	wf := wireFunc{
		Name:   fn.Name,
		Owner:  uint32(fn.Owner),
		Flags:  uint32(fn.Flags),
		Result: uint32(fn.Result),
		Span:   spanToWire(fn.Span),
	}
	for _, p := range fn.Params {
		wf.Params = append(wf.Params, wireParam{
			Name: p.Name,
			Slot: int32(p.Slot),
			Type: uint32(p.Type),
			Span: spanToWire(p.Span),
		})
	}
	if fn.Body != nil {
		wf.HasBody = true
		body, err := blockToWire(fn.Body)
		if err != nil {
			return wireFunc{}, err
		}
		wf.Body = body
	}
	return wf, nil
}

func blockToWire(b *hir.Block) ([]wireStmt, error) {
	if b == nil {
		return nil, nil
	}
	out := make([]wireStmt, 0, len(b.Stmts))
	for i := range b.Stmts {
		ws, err := stmtToWire(&b.Stmts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

//nolint:errcheck // payload types are implied by Kind
func stmtToWire(st *hir.Stmt) (wireStmt, error) {
	ws := wireStmt{Kind: uint8(st.Kind), Span: spanToWire(st.Span)}
	var err error
	switch st.Kind {
	case hir.StmtLet:
		data := st.Data.(hir.LetData)
		ws.Name = data.Name
		ws.Slot = int32(data.Slot)
		ws.Type = uint32(data.Type)
		if ws.A, err = exprToWire(data.Value); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtExpr:
		data := st.Data.(hir.ExprStmtData)
		if ws.A, err = exprToWire(data.Expr); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtAssign:
		data := st.Data.(hir.AssignData)
		if ws.A, err = exprToWire(data.Target); err != nil {
			return wireStmt{}, err
		}
		if ws.B, err = exprToWire(data.Value); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtReturn:
		data := st.Data.(hir.ReturnData)
		if ws.A, err = exprToWire(data.Value); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtIf:
		data := st.Data.(hir.IfStmtData)
		if ws.A, err = exprToWire(data.Cond); err != nil {
			return wireStmt{}, err
		}
		if ws.Then, err = blockToWire(data.Then); err != nil {
			return wireStmt{}, err
		}
		if data.Else != nil {
			ws.HasElse = true
			if ws.Else, err = blockToWire(data.Else); err != nil {
				return wireStmt{}, err
			}
		}
	case hir.StmtWhile:
		data := st.Data.(hir.WhileData)
		if ws.A, err = exprToWire(data.Cond); err != nil {
			return wireStmt{}, err
		}
		if ws.Block, err = blockToWire(data.Body); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtBlock:
		data := st.Data.(hir.BlockStmtData)
		if ws.Block, err = blockToWire(data.Block); err != nil {
			return wireStmt{}, err
		}
	case hir.StmtBreak, hir.StmtContinue:
	default:
		return wireStmt{}, fmt.Errorf("unitfile: cannot encode statement kind %s", st.Kind)
	}
	return ws, nil
}

//nolint:errcheck // payload types are implied by Kind
func exprToWire(e *hir.Expr) (*wireExpr, error) {
	if e == nil {
		return nil, nil
	}
	we := &wireExpr{Kind: uint8(e.Kind), Type: uint32(e.Type), Span: spanToWire(e.Span)}
	var err error
	switch e.Kind {
	case hir.ExprLiteral:
		data := e.Data.(hir.LiteralData)
		we.Lit = uint8(data.Kind)
		we.Int = data.IntValue
		we.Float = data.FloatValue
		we.Bool = data.BoolValue
		we.Str = data.StringValue
	case hir.ExprVarRef:
		data := e.Data.(hir.VarRefData)
		we.Name = data.Name
		we.Slot = int32(data.Slot)
	case hir.ExprUnaryOp:
		data := e.Data.(hir.UnaryOpData)
		we.Op = uint8(data.Op)
		if we.A, err = exprToWire(data.Operand); err != nil {
			return nil, err
		}
	case hir.ExprBinaryOp:
		data := e.Data.(hir.BinaryOpData)
		we.Op = uint8(data.Op)
		if we.A, err = exprToWire(data.Left); err != nil {
			return nil, err
		}
		if we.B, err = exprToWire(data.Right); err != nil {
			return nil, err
		}
	case hir.ExprCall:
		data := e.Data.(hir.CallData)
		we.Target = uint32(data.Target)
		we.Method = data.Method
		we.Static = data.Static
		if we.Recv, err = exprToWire(data.Recv); err != nil {
			return nil, err
		}
		if we.Args, err = exprsToWire(data.Args); err != nil {
			return nil, err
		}
	case hir.ExprFieldAccess:
		data := e.Data.(hir.FieldAccessData)
		we.Name = data.Field
		if we.A, err = exprToWire(data.Object); err != nil {
			return nil, err
		}
	case hir.ExprIndex:
		data := e.Data.(hir.IndexData)
		if we.A, err = exprToWire(data.Object); err != nil {
			return nil, err
		}
		if we.B, err = exprToWire(data.Index); err != nil {
			return nil, err
		}
	case hir.ExprArrayLit:
		data := e.Data.(hir.ArrayLitData)
		if we.Args, err = exprsToWire(data.Elements); err != nil {
			return nil, err
		}
	case hir.ExprNew:
		data := e.Data.(hir.NewData)
		we.Ref = uint32(data.Class)
		if we.Args, err = exprsToWire(data.Args); err != nil {
			return nil, err
		}
	case hir.ExprCond:
		data := e.Data.(hir.CondData)
		if we.A, err = exprToWire(data.Cond); err != nil {
			return nil, err
		}
		if we.B, err = exprToWire(data.Then); err != nil {
			return nil, err
		}
		if we.C, err = exprToWire(data.Else); err != nil {
			return nil, err
		}
	case hir.ExprCast:
		data := e.Data.(hir.CastData)
		we.Ref = uint32(data.TargetTy)
		if we.A, err = exprToWire(data.Value); err != nil {
			return nil, err
		}
	case hir.ExprTypeRef:
		data := e.Data.(hir.TypeRefData)
		we.Ref = uint32(data.Ref)
	default:
		return nil, fmt.Errorf("unitfile: cannot encode expression kind %s", e.Kind)
	}
	return we, nil
}

func exprsToWire(exprs []*hir.Expr) ([]*wireExpr, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	out := make([]*wireExpr, 0, len(exprs))
	for _, e := range exprs {
		we, err := exprToWire(e)
		if err != nil {
			return nil, err
		}
		out = append(out, we)
	}
	return out, nil
}
