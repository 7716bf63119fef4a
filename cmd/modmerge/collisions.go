package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modmerge/internal/diag"
	"modmerge/internal/discover"
	"modmerge/internal/merge"
	"modmerge/internal/modfile"
)

var collisionsCmd = &cobra.Command{
	Use:   "collisions [dir ...]",
	Short: "Show which IDs would be remapped, without writing output",
	RunE:  runCollisions,
}

func runCollisions(cmd *cobra.Command, args []string) error {
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

	result, err := merge.Plan(ctx, files, opts)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	header := color.New(color.FgCyan, color.Bold)
	colorize := useColor(cmd, os.Stdout)
	total := 0
	for _, name := range result.Order {
		table := result.Remaps[name]
		if len(table) == 0 {
			continue
		}
		total += len(table)
		if colorize {
			header.Println(name)
		} else {
			fmt.Println(name)
		}
		keys := make([]modfile.RemapKey, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Type != keys[j].Type {
				return keys[i].Type < keys[j].Type
			}
			return keys[i].ID < keys[j].ID
		})
		for _, k := range keys {
			fmt.Printf("  %-8s %d -> %d\n", modfile.DescribeID(k.Type, k.ID), k.ID, table[k])
		}
	}
	if total == 0 {
		fmt.Println("no collisions")
	}

	printWarnings(cmd, append(discBag.Items(), result.Warnings...))
	return nil
}
