package buildpipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"javelin/internal/buildpipeline"
	"javelin/internal/diag"
	"javelin/internal/hir"
	"javelin/internal/source"
	"javelin/internal/types"
	"javelin/internal/unitfile"
)

// writeUnit saves a small module with one reference cast under dir and
// returns its path.
func writeUnit(t *testing.T, dir, name string) string {
	t.Helper()
	in := types.NewInterner()
	str := in.Reference("java.lang.String")
	obj := in.Reference("java.lang.Object")

	m := &hir.Module{
		Name: name,
		Funcs: []*hir.Func{{
			Name:   "f",
			Flags:  hir.FuncStatic,
			Params: []hir.Param{{Name: "o", Slot: 0, Type: obj}},
			Result: str,
			Body: &hir.Block{Stmts: []hir.Stmt{
				{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
					Kind: hir.ExprCast,
					Type: str,
					Data: hir.CastData{
						TargetTy: str,
						Value: &hir.Expr{
							Kind: hir.ExprVarRef,
							Type: obj,
							Data: hir.VarRefData{Name: "o", Slot: 0},
						},
					},
				}}},
			}},
		}},
		TypeInterner: in,
		Files:        source.NewFileTable(),
	}

	path := filepath.Join(dir, name+unitfile.Ext)
	if err := unitfile.Save(path, m); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}

type recordingSink struct {
	events chan buildpipeline.Event
}

func (s recordingSink) OnEvent(evt buildpipeline.Event) { s.events <- evt }

func TestNormalizePipeline(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	paths := []string{
		writeUnit(t, dir, "alpha"),
		writeUnit(t, dir, "beta"),
	}

	res, err := buildpipeline.Normalize(context.Background(), &buildpipeline.NormalizeRequest{
		Paths:  paths,
		OutDir: outDir,
		Jobs:   2,
		Verify: true,
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Failed != 0 {
		t.Fatalf("%d units failed: %+v", res.Failed, res.Units)
	}
	if len(res.Units) != 2 {
		t.Fatalf("got %d unit results, want 2", len(res.Units))
	}

	for _, unit := range res.Units {
		if unit.Err != nil {
			t.Errorf("%s: %v", unit.Path, unit.Err)
			continue
		}
		want := filepath.Join(outDir, filepath.Base(unit.Path))
		if unit.OutPath != want {
			t.Errorf("out path = %s, want %s", unit.OutPath, want)
		}

		m, err := unitfile.Load(unit.OutPath, diag.NopReporter{})
		if err != nil {
			t.Fatalf("load output %s: %v", unit.OutPath, err)
		}
		ret := m.Funcs[0].Body.Stmts[0].Data.(hir.ReturnData).Value
		if ret.Kind != hir.ExprCast {
			t.Fatalf("output top kind = %s, want cast wrapper", ret.Kind)
		}
		call, ok := ret.Data.(hir.CastData).Value.Data.(hir.CallData)
		if !ok || call.Method != "to" {
			t.Errorf("output does not wrap rt.Casts.to, got %+v", ret.Data)
		}
	}
}

func TestNormalizeInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "solo")

	res, err := buildpipeline.Normalize(context.Background(), &buildpipeline.NormalizeRequest{
		Paths: []string{path},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Units[0].OutPath != path {
		t.Errorf("in-place run wrote to %s", res.Units[0].OutPath)
	}
}

func TestNormalizeRecordsPerUnitFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeUnit(t, dir, "good")
	bad := filepath.Join(dir, "bad"+unitfile.Ext)
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := buildpipeline.Normalize(context.Background(), &buildpipeline.NormalizeRequest{
		Paths: []string{good, bad},
	})
	if err != nil {
		t.Fatalf("Normalize returned a run-level error: %v", err)
	}
	if res.Failed != 1 {
		t.Fatalf("failed = %d, want 1", res.Failed)
	}
	if res.Units[0].Err != nil {
		t.Errorf("good unit failed: %v", res.Units[0].Err)
	}
	if res.Units[1].Err == nil {
		t.Error("bad unit reported no error")
	}
}

func TestNormalizeEmitsEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "events")

	events := make(chan buildpipeline.Event, 64)
	_, err := buildpipeline.Normalize(context.Background(), &buildpipeline.NormalizeRequest{
		Paths:    []string{path},
		Progress: recordingSink{events: events},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	close(events)

	var sawQueued, sawDecode, sawNormalize, sawDone bool
	for evt := range events {
		if evt.File != path {
			t.Errorf("event for unexpected file %q", evt.File)
		}
		switch {
		case evt.Status == buildpipeline.StatusQueued:
			sawQueued = true
		case evt.Stage == buildpipeline.StageDecode && evt.Status == buildpipeline.StatusWorking:
			sawDecode = true
		case evt.Stage == buildpipeline.StageNormalize && evt.Status == buildpipeline.StatusWorking:
			sawNormalize = true
		case evt.Status == buildpipeline.StatusDone:
			sawDone = true
		}
	}
	if !sawQueued || !sawDecode || !sawNormalize || !sawDone {
		t.Errorf("missing pipeline events: queued=%v decode=%v normalize=%v done=%v",
			sawQueued, sawDecode, sawNormalize, sawDone)
	}
}

func TestNormalizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := writeUnit(t, dir, "late")
	_, err := buildpipeline.Normalize(ctx, &buildpipeline.NormalizeRequest{Paths: []string{path}})
	if err == nil {
		t.Fatal("cancelled run returned no error")
	}
}

func TestListUnitFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	b := writeUnit(t, sub, "b")
	a := writeUnit(t, dir, "a")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := buildpipeline.ListUnitFiles(dir)
	if err != nil {
		t.Fatalf("ListUnitFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d unit files, want 2: %v", len(files), files)
	}
	if files[0] != a || files[1] != b {
		t.Errorf("files = %v, want sorted [%s %s]", files, a, b)
	}
}
