package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"javelin/internal/diag"
	"javelin/internal/hir"
	"javelin/internal/unitfile"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <unit-file>",
	Short: "Print the contents of a compilation unit file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if maxDiag <= 0 {
			maxDiag = 100
		}
		bag := diag.NewBag(maxDiag)
		module, err := unitfile.Load(path, diag.BagReporter{Bag: bag})
		if bag.Len() > 0 {
			printBag(path, bag, useColor(cmd, os.Stderr))
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if err := hir.Dump(cmd.OutOrStdout(), module); err != nil {
			return fmt.Errorf("dump %s: %w", path, err)
		}
		return nil
	},
}
