package unitfile_test

import (
	"path/filepath"
	"strings"
	"testing"

	"javelin/internal/diag"
	"javelin/internal/hir"
	"javelin/internal/source"
	"javelin/internal/types"
	"javelin/internal/unitfile"
)

// buildSampleModule returns a module touching every statement and expression
// kind the codec supports.
func buildSampleModule() *hir.Module {
	in := types.NewInterner()
	b := in.Builtins()
	str := in.Reference("java.lang.String")
	strArr := in.Array(str, 2)
	point := in.Reference("app.Point")

	files := source.NewFileTable()
	fid := files.Add("src/app/Main.java")
	at := func(start, end uint32) source.Span {
		return source.Span{File: fid, Start: start, End: end}
	}

	varRef := func(name string, slot int, ty types.TypeID) *hir.Expr {
		return &hir.Expr{Kind: hir.ExprVarRef, Type: ty, Data: hir.VarRefData{Name: name, Slot: slot}}
	}

	body := &hir.Block{Stmts: []hir.Stmt{
		{Kind: hir.StmtLet, Span: at(0, 10), Data: hir.LetData{
			Name: "s", Slot: 0, Type: str,
			Value: &hir.Expr{Kind: hir.ExprCast, Type: str, Span: at(4, 10), Data: hir.CastData{
				TargetTy: str,
				Value:    varRef("o", 1, in.Reference("java.lang.Object")),
			}},
		}},
		{Kind: hir.StmtAssign, Data: hir.AssignData{
			Target: varRef("n", 2, b.Int),
			Value: &hir.Expr{Kind: hir.ExprBinaryOp, Type: b.Int, Data: hir.BinaryOpData{
				Op:   hir.BinAdd,
				Left: &hir.Expr{Kind: hir.ExprLiteral, Type: b.Int, Data: hir.LiteralData{Kind: hir.LiteralInt, IntValue: 40}},
				Right: &hir.Expr{Kind: hir.ExprUnaryOp, Type: b.Int, Data: hir.UnaryOpData{
					Op:      hir.UnaryNeg,
					Operand: &hir.Expr{Kind: hir.ExprLiteral, Type: b.Int, Data: hir.LiteralData{Kind: hir.LiteralInt, IntValue: 2}},
				}},
			}},
		}},
		{Kind: hir.StmtIf, Data: hir.IfStmtData{
			Cond: &hir.Expr{Kind: hir.ExprCall, Type: b.Boolean, Data: hir.CallData{
				Target: str, Method: "$isInstance", Static: true,
				Args: []*hir.Expr{varRef("o", 1, str)},
			}},
			Then: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: &hir.Expr{
					Kind: hir.ExprCall, Type: types.NoTypeID, Data: hir.CallData{
						Target: point, Method: "move", Static: false,
						Recv: &hir.Expr{Kind: hir.ExprNew, Type: point, Data: hir.NewData{
							Class: point,
							Args: []*hir.Expr{
								{Kind: hir.ExprLiteral, Type: b.Double, Data: hir.LiteralData{Kind: hir.LiteralFloat, FloatValue: 1.5}},
							},
						}},
						Args: []*hir.Expr{
							{Kind: hir.ExprCond, Type: b.Int, Data: hir.CondData{
								Cond: &hir.Expr{Kind: hir.ExprLiteral, Type: b.Boolean, Data: hir.LiteralData{Kind: hir.LiteralBool, BoolValue: true}},
								Then: &hir.Expr{Kind: hir.ExprIndex, Type: b.Int, Data: hir.IndexData{
									Object: varRef("xs", 3, in.Array(b.Int, 1)),
									Index:  &hir.Expr{Kind: hir.ExprLiteral, Type: b.Int, Data: hir.LiteralData{Kind: hir.LiteralInt, IntValue: 0}},
								}},
								Else: &hir.Expr{Kind: hir.ExprFieldAccess, Type: b.Int, Data: hir.FieldAccessData{
									Object: varRef("p", 4, point),
									Field:  "x",
								}},
							}},
						},
					},
				}}},
				{Kind: hir.StmtBreak, Data: hir.BreakData{}},
			}},
			Else: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtContinue, Data: hir.ContinueData{}},
			}},
		}},
		{Kind: hir.StmtWhile, Data: hir.WhileData{
			Cond: &hir.Expr{Kind: hir.ExprLiteral, Type: b.Boolean, Data: hir.LiteralData{Kind: hir.LiteralBool, BoolValue: false}},
			Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtBlock, Data: hir.BlockStmtData{Block: &hir.Block{Stmts: []hir.Stmt{
					{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: &hir.Expr{
						Kind: hir.ExprArrayLit, Type: strArr, Data: hir.ArrayLitData{
							Elements: []*hir.Expr{
								{Kind: hir.ExprLiteral, Type: str, Data: hir.LiteralData{Kind: hir.LiteralString, StringValue: "hi"}},
								{Kind: hir.ExprLiteral, Type: str, Data: hir.LiteralData{Kind: hir.LiteralNull}},
							},
						},
					}}},
				}}}},
			}},
		}},
		{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
			Kind: hir.ExprTypeRef, Type: str, Data: hir.TypeRefData{Ref: str},
		}}},
	}}

	return &hir.Module{
		Name: "app.Main",
		Funcs: []*hir.Func{
			{
				Name:   "run",
				Owner:  point,
				Params: []hir.Param{{Name: "o", Slot: 1, Type: in.Reference("java.lang.Object")}},
				Result: str,
				Flags:  hir.FuncStatic | hir.FuncPublic,
				Body:   body,
			},
			{Name: "alloc", Owner: point, Flags: hir.FuncNative},
		},
		TypeInterner: in,
		Files:        files,
	}
}

func TestRoundTrip(t *testing.T) {
	m := buildSampleModule()

	data, err := unitfile.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	bag := diag.NewBag(16)
	got, err := unitfile.Decode(data, "app.jvu", diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("decode produced diagnostics: %+v", bag.Items())
	}

	if got.Name != "app.Main" {
		t.Errorf("module name = %q", got.Name)
	}
	if got.Path != "app.jvu" {
		t.Errorf("module path = %q", got.Path)
	}

	// The printed form is a faithful structural fingerprint; comparing it
	// catches any payload or descriptor drift without comparing TypeIDs,
	// which may legally differ between interners. The decoder stamps its own
	// path, so neutralize it first.
	got.Path = m.Path
	want := dumpString(t, m)
	have := dumpString(t, got)
	if want != have {
		t.Errorf("round trip changed the module\n--- original\n%s\n--- decoded\n%s", want, have)
	}
	if got.Files.Len() != 1 || got.Files.Path(0) != "src/app/Main.java" {
		t.Errorf("file table not preserved: %v", got.Files.Paths())
	}
	if len(got.Funcs) != 2 {
		t.Fatalf("decoded %d funcs, want 2", len(got.Funcs))
	}
	if got.Funcs[1].HasBody() {
		t.Error("native func grew a body")
	}
	if !got.Funcs[0].IsStatic() {
		t.Error("static flag lost")
	}
}

func TestSaveAndLoad(t *testing.T) {
	m := buildSampleModule()
	path := filepath.Join(t.TempDir(), "app"+unitfile.Ext)

	if err := unitfile.Save(path, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := unitfile.Load(path, diag.NopReporter{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Path != path {
		t.Errorf("module path = %q, want %q", got.Path, path)
	}
	got.Path = m.Path
	if dumpString(t, got) != dumpString(t, m) {
		t.Error("Load returned a different module than Save wrote")
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := unitfile.Decode([]byte("not msgpack at all"), "junk.jvu", diag.NopReporter{})
	if err == nil {
		t.Fatal("Decode accepted garbage")
	}
	if !strings.Contains(err.Error(), diag.UnitMalformed.String()) {
		t.Errorf("error %v does not carry %s", err, diag.UnitMalformed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := unitfile.Load(filepath.Join(t.TempDir(), "absent.jvu"), diag.NopReporter{})
	if err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func dumpString(t *testing.T, m *hir.Module) string {
	t.Helper()
	var sb strings.Builder
	if err := hir.Dump(&sb, m); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	return sb.String()
}
