package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modmerge/internal/diag"
	"modmerge/internal/discover"
	"modmerge/internal/merge"
	"modmerge/internal/modfile"
	"modmerge/internal/resolve"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir ...]",
	Short: "Inventory the entities each mod declares",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, dirs, err := gatherOptions(cmd, args)
	if err != nil {
		return err
	}
	discBag := diag.NewBag(opts.MaxWarnings)
	files, err := discover.New().Find(ctx, dirs, discBag)
	if err != nil {
		return fmt.Errorf("mod discovery failed: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found under %v", discover.Ext, dirs)
	}

	defs, warnings, err := merge.Scan(ctx, files, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	header := color.New(color.FgCyan, color.Bold)
	colorize := useColor(cmd, os.Stdout)
	for _, name := range resolve.Order(defs) {
		def := defs[name]
		title := fmt.Sprintf("%s (%d lines, %d block(s))", def.Title(), len(def.Lines), len(def.Blocks))
		if colorize {
			header.Println(title)
		} else {
			fmt.Println(title)
		}
		for _, t := range modfile.EntityTypes {
			refs := def.RefsOf(t)
			if len(refs) == 0 {
				continue
			}
			lo, hi := refs[0].ID, refs[0].ID
			for _, r := range refs[1:] {
				if r.ID < lo {
					lo = r.ID
				}
				if r.ID > hi {
					hi = r.ID
				}
			}
			fmt.Printf("  %-8s %3d ref(s), ids %d..%d\n", t, len(refs), lo, hi)
		}
	}

	printWarnings(cmd, append(discBag.Items(), warnings...))
	return nil
}
