package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"javelin/internal/buildpipeline"
	"javelin/internal/diag"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
)

// reportResults prints per-unit diagnostics to stderr and a summary line to
// stdout.
func reportResults(cmd *cobra.Command, res buildpipeline.NormalizeResult, quiet bool) {
	colored := useColor(cmd, os.Stderr)
	for i := range res.Units {
		unit := &res.Units[i]
		if unit.Bag != nil && unit.Bag.Len() > 0 {
			unit.Bag.Sort()
			printBag(unit.Path, unit.Bag, colored)
		}
		if unit.Err != nil {
			prefix := "error"
			if colored {
				prefix = errColor.Sprint(prefix)
			}
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", prefix, unit.Path, unit.Err)
		}
	}
	if quiet {
		return
	}
	ok := len(res.Units) - res.Failed
	summary := fmt.Sprintf("normalized %d/%d units", ok, len(res.Units))
	if colored && res.Failed == 0 {
		summary = okColor.Sprint(summary)
	}
	fmt.Fprintln(os.Stdout, summary)
}

func printBag(path string, bag *diag.Bag, colored bool) {
	for _, d := range bag.Items() {
		sev := d.Severity.String()
		if colored {
			switch d.Severity {
			case diag.SevError:
				sev = errColor.Sprint(sev)
			case diag.SevWarning:
				sev = warnColor.Sprint(sev)
			default:
				sev = infoColor.Sprint(sev)
			}
		}
		fmt.Fprintf(os.Stderr, "%s: %s %s: %s\n", path, sev, d.Code, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(os.Stderr, "  note: %s\n", n.Msg)
		}
	}
}
