package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"javelin/internal/types"
)

// Printer dumps IR to a readable text format, mainly for the `dump` command
// and for tests that assert on pass output.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a new IR printer.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes the module to the writer.
func Dump(w io.Writer, m *Module) error {
	p := NewPrinter(w, m.TypeInterner)
	return p.PrintModule(m)
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	p.printf("module %s\n", m.Name)
	if m.Path != "" {
		p.printf("  path: %s\n", m.Path)
	}
	p.printf("\n")
	for _, fn := range m.Funcs {
		p.printFunc(fn)
		p.printf("\n")
	}
	return p.err
}

// PrintExpr prints a single expression tree.
func (p *Printer) PrintExpr(e *Expr) error {
	p.printExpr(e)
	return p.err
}

func (p *Printer) printFunc(fn *Func) {
	var params []string
	for _, param := range fn.Params {
		params = append(params, fmt.Sprintf("%s: %s", param.Name, p.typeName(param.Type)))
	}
	result := "void"
	if fn.Result != types.NoTypeID {
		result = p.typeName(fn.Result)
	}
	p.printf("fn %s%s(%s) -> %s\n", fn.Flags, fn.Name, strings.Join(params, ", "), result)
	if fn.Body == nil {
		return
	}
	p.indent++
	p.printBlock(fn.Body)
	p.indent--
}

func (p *Printer) printBlock(b *Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		p.printStmt(&b.Stmts[i])
	}
}

//nolint:errcheck // payload types are implied by Kind
func (p *Printer) printStmt(st *Stmt) {
	switch st.Kind {
	case StmtLet:
		data := st.Data.(LetData)
		p.printf("let %s: %s\n", data.Name, p.typeName(data.Type))
		if data.Value != nil {
			p.indent++
			p.printExpr(data.Value)
			p.indent--
		}
	case StmtExpr:
		data := st.Data.(ExprStmtData)
		p.printf("expr\n")
		p.indent++
		p.printExpr(data.Expr)
		p.indent--
	case StmtAssign:
		data := st.Data.(AssignData)
		p.printf("assign\n")
		p.indent++
		p.printExpr(data.Target)
		p.printExpr(data.Value)
		p.indent--
	case StmtReturn:
		data := st.Data.(ReturnData)
		p.printf("return\n")
		if data.Value != nil {
			p.indent++
			p.printExpr(data.Value)
			p.indent--
		}
	case StmtIf:
		data := st.Data.(IfStmtData)
		p.printf("if\n")
		p.indent++
		p.printExpr(data.Cond)
		p.printf("then:\n")
		p.indent++
		p.printBlock(data.Then)
		p.indent--
		if data.Else != nil {
			p.printf("else:\n")
			p.indent++
			p.printBlock(data.Else)
			p.indent--
		}
		p.indent--
	case StmtWhile:
		data := st.Data.(WhileData)
		p.printf("while\n")
		p.indent++
		p.printExpr(data.Cond)
		p.printBlock(data.Body)
		p.indent--
	case StmtBlock:
		data := st.Data.(BlockStmtData)
		p.printf("block\n")
		p.indent++
		p.printBlock(data.Block)
		p.indent--
	case StmtBreak:
		p.printf("break\n")
	case StmtContinue:
		p.printf("continue\n")
	default:
		p.printf("stmt<%s>\n", st.Kind)
	}
}

//nolint:errcheck // payload types are implied by Kind
func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>\n")
		return
	}
	switch e.Kind {
	case ExprLiteral:
		data := e.Data.(LiteralData)
		p.printf("lit %s : %s\n", literalText(data), p.typeName(e.Type))
	case ExprVarRef:
		data := e.Data.(VarRefData)
		p.printf("var %s : %s\n", data.Name, p.typeName(e.Type))
	case ExprUnaryOp:
		data := e.Data.(UnaryOpData)
		p.printf("unary %s : %s\n", unaryOpText(data.Op), p.typeName(e.Type))
		p.indent++
		p.printExpr(data.Operand)
		p.indent--
	case ExprBinaryOp:
		data := e.Data.(BinaryOpData)
		p.printf("binary %s : %s\n", binaryOpText(data.Op), p.typeName(e.Type))
		p.indent++
		p.printExpr(data.Left)
		p.printExpr(data.Right)
		p.indent--
	case ExprCall:
		data := e.Data.(CallData)
		kind := "call"
		if data.Static {
			kind = "static-call"
		}
		p.printf("%s %s.%s : %s\n", kind, p.typeName(data.Target), data.Method, p.typeName(e.Type))
		p.indent++
		if data.Recv != nil {
			p.printExpr(data.Recv)
		}
		for _, arg := range data.Args {
			p.printExpr(arg)
		}
		p.indent--
	case ExprFieldAccess:
		data := e.Data.(FieldAccessData)
		p.printf("field .%s : %s\n", data.Field, p.typeName(e.Type))
		p.indent++
		p.printExpr(data.Object)
		p.indent--
	case ExprIndex:
		data := e.Data.(IndexData)
		p.printf("index : %s\n", p.typeName(e.Type))
		p.indent++
		p.printExpr(data.Object)
		p.printExpr(data.Index)
		p.indent--
	case ExprArrayLit:
		data := e.Data.(ArrayLitData)
		p.printf("arraylit : %s\n", p.typeName(e.Type))
		p.indent++
		for _, elem := range data.Elements {
			p.printExpr(elem)
		}
		p.indent--
	case ExprNew:
		data := e.Data.(NewData)
		p.printf("new %s\n", p.typeName(data.Class))
		p.indent++
		for _, arg := range data.Args {
			p.printExpr(arg)
		}
		p.indent--
	case ExprCond:
		data := e.Data.(CondData)
		p.printf("cond : %s\n", p.typeName(e.Type))
		p.indent++
		p.printExpr(data.Cond)
		p.printExpr(data.Then)
		p.printExpr(data.Else)
		p.indent--
	case ExprCast:
		data := e.Data.(CastData)
		p.printf("cast (%s)\n", p.typeName(data.TargetTy))
		p.indent++
		p.printExpr(data.Value)
		p.indent--
	case ExprTypeRef:
		data := e.Data.(TypeRefData)
		p.printf("typeref %s\n", p.typeName(data.Ref))
	default:
		p.printf("expr<%s> : %s\n", e.Kind, p.typeName(e.Type))
	}
}

func (p *Printer) typeName(id types.TypeID) string {
	if p.interner == nil {
		return fmt.Sprintf("type#%d", id)
	}
	return p.interner.String(id)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if p.indent > 0 {
		if _, err := io.WriteString(p.w, strings.Repeat("  ", p.indent)); err != nil {
			p.err = err
			return
		}
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
	}
}

func literalText(data LiteralData) string {
	switch data.Kind {
	case LiteralInt:
		return strconv.FormatInt(data.IntValue, 10)
	case LiteralLong:
		return strconv.FormatInt(data.IntValue, 10) + "L"
	case LiteralFloat:
		return strconv.FormatFloat(data.FloatValue, 'g', -1, 64)
	case LiteralBool:
		return strconv.FormatBool(data.BoolValue)
	case LiteralString:
		return strconv.Quote(data.StringValue)
	case LiteralNull:
		return "null"
	default:
		return "?"
	}
}

func unaryOpText(op UnaryOp) string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "~"
	case UnaryPlus:
		return "+"
	default:
		return "?"
	}
}

func binaryOpText(op BinaryOp) string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinRem:
		return "%"
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinGt:
		return ">"
	case BinGe:
		return ">="
	case BinBitAnd:
		return "&"
	case BinBitOr:
		return "|"
	case BinBitXor:
		return "^"
	case BinShl:
		return "<<"
	case BinShr:
		return ">>"
	case BinUShr:
		return ">>>"
	default:
		return "?"
	}
}
