package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"javelin/internal/buildpipeline"
	"javelin/internal/unitfile"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [flags] [path]",
	Short: "Normalize casts in unit files",
	Long: `Normalize rewrites every cast in the given unit files into explicit runtime
operations. Path may be a single unit file or a directory; with no path the
units directory from javelin.toml is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("out", "", "output directory (default: rewrite in place)")
	normalizeCmd.Flags().Int("jobs", 0, "parallel workers (0 = CPU count)")
	normalizeCmd.Flags().Bool("verify", false, "check the output contract after the pass")
	normalizeCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var target string
	if len(args) == 1 {
		target = args[0]
	}

	manifest, manifestFound, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	if manifestFound {
		cfg := manifest.Config.Normalize
		if target == "" && cfg.Units != "" {
			target = filepath.Join(manifest.Root, cfg.Units)
		}
		if outDir == "" && cfg.Out != "" {
			outDir = filepath.Join(manifest.Root, cfg.Out)
		}
		if jobs == 0 {
			jobs = cfg.Jobs
		}
		verify = verify || cfg.Verify
	}
	if target == "" {
		return fmt.Errorf("no unit path given and no javelin.toml found")
	}

	paths, err := collectUnitPaths(target)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files under %s", unitfile.Ext, target)
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	req := &buildpipeline.NormalizeRequest{
		Paths:          paths,
		OutDir:         outDir,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Verify:         verify,
	}

	var res buildpipeline.NormalizeResult
	if !quiet && shouldUseTUI(uiModeValue) {
		res, err = runNormalizeWithUI(cmd.Context(), "normalizing units", paths, req)
	} else {
		res, err = buildpipeline.Normalize(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	reportResults(cmd, res, quiet)
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d units failed", res.Failed, len(res.Units))
	}
	return nil
}

func collectUnitPaths(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return buildpipeline.ListUnitFiles(target)
	}
	if !strings.HasSuffix(target, unitfile.Ext) {
		return nil, fmt.Errorf("%s is not a %s file", target, unitfile.Ext)
	}
	return []string{target}, nil
}
