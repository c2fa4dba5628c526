package hir

// RewriteFunc rewrites a single expression. It is called exactly once per
// original node, after every child has already been rewritten, and returns
// the node that takes the original's place. Returning the input unchanged
// keeps the node. The walker never visits a returned replacement again, so a
// rewrite cannot trigger itself on its own output.
type RewriteFunc func(*Expr) (*Expr, error)

// RewriteExprs applies f to every expression in the module, children before
// parents. The module is mutated in place; expression nodes themselves are
// replaced, never edited.
func RewriteExprs(m *Module, f RewriteFunc) error {
	if m == nil || f == nil {
		return nil
	}
	for _, fn := range m.Funcs {
		if err := rewriteInBlock(fn.Body, f); err != nil {
			return err
		}
	}
	return nil
}

// RewriteFuncExprs applies f to every expression in a single function body.
func RewriteFuncExprs(fn *Func, f RewriteFunc) error {
	if fn == nil || f == nil {
		return nil
	}
	return rewriteInBlock(fn.Body, f)
}

func rewriteInBlock(b *Block, f RewriteFunc) error {
	if b == nil {
		return nil
	}
	for i := range b.Stmts {
		if err := rewriteInStmt(&b.Stmts[i], f); err != nil {
			return err
		}
	}
	return nil
}

func rewriteInStmt(st *Stmt, f RewriteFunc) error {
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtLet:
		data, ok := st.Data.(LetData)
		if !ok {
			return nil
		}
		value, err := rewriteExpr(data.Value, f)
		if err != nil {
			return err
		}
		data.Value = value
		st.Data = data
	case StmtExpr:
		data, ok := st.Data.(ExprStmtData)
		if !ok {
			return nil
		}
		expr, err := rewriteExpr(data.Expr, f)
		if err != nil {
			return err
		}
		data.Expr = expr
		st.Data = data
	case StmtAssign:
		data, ok := st.Data.(AssignData)
		if !ok {
			return nil
		}
		target, err := rewriteExpr(data.Target, f)
		if err != nil {
			return err
		}
		value, err := rewriteExpr(data.Value, f)
		if err != nil {
			return err
		}
		data.Target = target
		data.Value = value
		st.Data = data
	case StmtReturn:
		data, ok := st.Data.(ReturnData)
		if !ok {
			return nil
		}
		value, err := rewriteExpr(data.Value, f)
		if err != nil {
			return err
		}
		data.Value = value
		st.Data = data
	case StmtIf:
		data, ok := st.Data.(IfStmtData)
		if !ok {
			return nil
		}
		cond, err := rewriteExpr(data.Cond, f)
		if err != nil {
			return err
		}
		data.Cond = cond
		if err := rewriteInBlock(data.Then, f); err != nil {
			return err
		}
		if err := rewriteInBlock(data.Else, f); err != nil {
			return err
		}
		st.Data = data
	case StmtWhile:
		data, ok := st.Data.(WhileData)
		if !ok {
			return nil
		}
		cond, err := rewriteExpr(data.Cond, f)
		if err != nil {
			return err
		}
		data.Cond = cond
		if err := rewriteInBlock(data.Body, f); err != nil {
			return err
		}
		st.Data = data
	case StmtBlock:
		data, ok := st.Data.(BlockStmtData)
		if !ok {
			return nil
		}
		if err := rewriteInBlock(data.Block, f); err != nil {
			return err
		}
		st.Data = data
	default:
	}
	return nil
}

func rewriteExpr(e *Expr, f RewriteFunc) (*Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Kind {
	case ExprUnaryOp:
		data, ok := e.Data.(UnaryOpData)
		if !ok {
			return e, nil
		}
		operand, err := rewriteExpr(data.Operand, f)
		if err != nil {
			return nil, err
		}
		data.Operand = operand
		e.Data = data
	case ExprBinaryOp:
		data, ok := e.Data.(BinaryOpData)
		if !ok {
			return e, nil
		}
		left, err := rewriteExpr(data.Left, f)
		if err != nil {
			return nil, err
		}
		right, err := rewriteExpr(data.Right, f)
		if err != nil {
			return nil, err
		}
		data.Left = left
		data.Right = right
		e.Data = data
	case ExprCall:
		data, ok := e.Data.(CallData)
		if !ok {
			return e, nil
		}
		recv, err := rewriteExpr(data.Recv, f)
		if err != nil {
			return nil, err
		}
		data.Recv = recv
		for i := range data.Args {
			arg, err := rewriteExpr(data.Args[i], f)
			if err != nil {
				return nil, err
			}
			data.Args[i] = arg
		}
		e.Data = data
	case ExprFieldAccess:
		data, ok := e.Data.(FieldAccessData)
		if !ok {
			return e, nil
		}
		object, err := rewriteExpr(data.Object, f)
		if err != nil {
			return nil, err
		}
		data.Object = object
		e.Data = data
	case ExprIndex:
		data, ok := e.Data.(IndexData)
		if !ok {
			return e, nil
		}
		object, err := rewriteExpr(data.Object, f)
		if err != nil {
			return nil, err
		}
		index, err := rewriteExpr(data.Index, f)
		if err != nil {
			return nil, err
		}
		data.Object = object
		data.Index = index
		e.Data = data
	case ExprArrayLit:
		data, ok := e.Data.(ArrayLitData)
		if !ok {
			return e, nil
		}
		for i := range data.Elements {
			elem, err := rewriteExpr(data.Elements[i], f)
			if err != nil {
				return nil, err
			}
			data.Elements[i] = elem
		}
		e.Data = data
	case ExprNew:
		data, ok := e.Data.(NewData)
		if !ok {
			return e, nil
		}
		for i := range data.Args {
			arg, err := rewriteExpr(data.Args[i], f)
			if err != nil {
				return nil, err
			}
			data.Args[i] = arg
		}
		e.Data = data
	case ExprCond:
		data, ok := e.Data.(CondData)
		if !ok {
			return e, nil
		}
		cond, err := rewriteExpr(data.Cond, f)
		if err != nil {
			return nil, err
		}
		then, err := rewriteExpr(data.Then, f)
		if err != nil {
			return nil, err
		}
		els, err := rewriteExpr(data.Else, f)
		if err != nil {
			return nil, err
		}
		data.Cond = cond
		data.Then = then
		data.Else = els
		e.Data = data
	case ExprCast:
		data, ok := e.Data.(CastData)
		if !ok {
			return e, nil
		}
		value, err := rewriteExpr(data.Value, f)
		if err != nil {
			return nil, err
		}
		data.Value = value
		e.Data = data
	default:
		// Literal, VarRef, TypeRef: no children.
	}
	return f(e)
}
