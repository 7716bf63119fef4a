package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"modmerge/internal/diag"
	"modmerge/internal/discover"
	"modmerge/internal/emit"
	"modmerge/internal/merge"
	"modmerge/internal/scan"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] [dir ...]",
	Short: "Merge all mods found under the given directories",
	Long:  `Merge scans every mod file, remaps colliding entity IDs and writes one combined file`,
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "merged.dm", "output file (- for stdout)")
	mergeCmd.Flags().Bool("plain", false, "disable the interactive progress UI")
	mergeCmd.Flags().Bool("no-header", false, "do not synthesize a combined mod header")
	mergeCmd.Flags().Bool("cache", true, "reuse parsed definitions for unchanged mods")
	mergeCmd.Flags().String("cache-dir", "", "override the scan cache location")
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, dirs, err := gatherOptions(cmd, args)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	plain, _ := cmd.Flags().GetBool("plain")
	noHeader, _ := cmd.Flags().GetBool("no-header")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	opts.Header = !noHeader

	if useCache, _ := cmd.Flags().GetBool("cache"); useCache {
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		cache, err := openCache(cacheDir)
		if err != nil {
			// Кэш — ускорение, не требование.
			fmt.Fprintf(os.Stderr, "warning: scan cache unavailable: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	discBag := diag.NewBag(opts.MaxWarnings)
	files, err := discover.New().Find(ctx, dirs, discBag)
	if err != nil {
		return fmt.Errorf("mod discovery failed: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found under %v", discover.Ext, dirs)
	}

	out, commit, abort, err := openOutput(output)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	sink := emit.SinkFunc(func(s string) error {
		_, err := w.WriteString(s + "\n")
		return err
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	sort.Strings(names)

	useUI := !plain && !quiet && output != "-" && isTerminal(os.Stdout)

	var result *merge.Result
	if useUI {
		title := fmt.Sprintf("merging %d mod(s)", len(files))
		result, err = runMergeWithUI(ctx, title, names, files, sink, opts)
	} else {
		result, err = merge.Merge(ctx, files, sink, opts)
	}
	if err != nil {
		abort()
		return fmt.Errorf("merge failed: %w", err)
	}
	if err := w.Flush(); err != nil {
		abort()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := commit(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printWarnings(cmd, append(discBag.Items(), result.Warnings...))
	if !quiet {
		remapped := 0
		for _, table := range result.Remaps {
			remapped += len(table)
		}
		fmt.Fprintf(os.Stderr, "merged %d mod(s), remapped %d id(s) -> %s\n",
			len(result.Order), remapped, output)
	}
	return nil
}

func openCache(dir string) (*scan.Cache, error) {
	if dir != "" {
		return scan.OpenCacheAt(dir)
	}
	return scan.OpenCache("modmerge")
}

// openOutput returns the sink file plus commit/abort hooks; "-" means
// stdout. Real files are written to a temp sibling and renamed into place
// on commit, so an aborted merge never leaves a partial output behind.
func openOutput(output string) (f *os.File, commit func() error, abort func(), err error) {
	if output == "-" {
		noop := func() error { return nil }
		return os.Stdout, noop, func() {}, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(output), filepath.Base(output)+".tmp-*")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create %s: %w", output, err)
	}
	commit = func() error {
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmp.Name())
			return err
		}
		return os.Rename(tmp.Name(), output)
	}
	abort = func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	return tmp, commit, abort, nil
}
