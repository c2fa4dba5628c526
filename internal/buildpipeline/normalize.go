package buildpipeline

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"javelin/internal/casts"
	"javelin/internal/diag"
	"javelin/internal/source"
	"javelin/internal/testkit"
	"javelin/internal/unitfile"
)

// NormalizeRequest configures a normalization run over unit files.
type NormalizeRequest struct {
	Paths          []string // unit files to process
	OutDir         string   // output directory; "" rewrites units in place
	Jobs           int      // parallel workers; <= 0 picks NumCPU
	MaxDiagnostics int      // per-unit diagnostic limit
	Verify         bool     // check the output contract after the pass
	Progress       ProgressSink
}

// UnitResult is the outcome for a single unit file.
type UnitResult struct {
	Path    string
	OutPath string
	Bag     *diag.Bag
	Err     error
	Timing  Timings
}

// NormalizeResult aggregates per-unit outcomes in input order.
type NormalizeResult struct {
	Units  []UnitResult
	Failed int
}

// ListUnitFiles returns the sorted list of unit files under dir.
func ListUnitFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, unitfile.Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// deterministic order
	sort.Strings(files)
	return files, nil
}

// Normalize runs the cast-normalization pipeline over every requested unit.
// Units are independent compilation units, so they run in parallel; the pass
// itself stays single-threaded within a unit. Per-unit failures land in the
// unit's result; the returned error reports only cancellation.
func Normalize(ctx context.Context, req *NormalizeRequest) (NormalizeResult, error) {
	if req == nil {
		return NormalizeResult{}, fmt.Errorf("buildpipeline: missing request")
	}
	sink := req.Progress
	if sink == nil {
		sink = NopSink{}
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	res := NormalizeResult{Units: make([]UnitResult, len(req.Paths))}
	for i, path := range req.Paths {
		res.Units[i] = UnitResult{Path: path}
		sink.OnEvent(Event{File: path, Status: StatusQueued})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range req.Paths {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unit := &res.Units[i]
			unit.Bag = diag.NewBag(maxDiag)
			normalizeUnit(unit, req, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	for i := range res.Units {
		if res.Units[i].Err != nil {
			res.Failed++
		}
	}
	return res, nil
}

func normalizeUnit(unit *UnitResult, req *NormalizeRequest, sink ProgressSink) {
	fail := func(stage Stage, code diag.Code, err error) {
		unit.Err = err
		unit.Bag.Add(diag.NewError(code, source.Span{File: source.NoFileID}, err.Error()))
		sink.OnEvent(Event{File: unit.Path, Stage: stage, Status: StatusError, Err: err})
	}

	sink.OnEvent(Event{File: unit.Path, Stage: StageDecode, Status: StatusWorking})
	start := time.Now()
	m, err := unitfile.Load(unit.Path, diag.BagReporter{Bag: unit.Bag})
	unit.Timing.Add(StageDecode, time.Since(start))
	if err != nil {
		fail(StageDecode, diag.UnitUnreadable, err)
		return
	}

	sink.OnEvent(Event{File: unit.Path, Stage: StageNormalize, Status: StatusWorking})
	start = time.Now()
	err = casts.Normalize(m)
	if err == nil && req.Verify {
		err = testkit.CheckNormalizedCasts(m)
	}
	unit.Timing.Add(StageNormalize, time.Since(start))
	if err != nil {
		fail(StageNormalize, diag.NormInvariant, err)
		return
	}

	outPath := unit.Path
	if req.OutDir != "" {
		outPath = filepath.Join(req.OutDir, filepath.Base(unit.Path))
	}
	unit.OutPath = outPath

	sink.OnEvent(Event{File: unit.Path, Stage: StageEncode, Status: StatusWorking})
	start = time.Now()
	err = unitfile.Save(outPath, m)
	unit.Timing.Add(StageEncode, time.Since(start))
	if err != nil {
		fail(StageEncode, diag.NormWriteFail, err)
		return
	}

	sink.OnEvent(Event{File: unit.Path, Stage: StageEncode, Status: StatusDone, Elapsed: unit.Timing.Total()})
}
