// Package merge orchestrates a whole run: parallel scan, sequential
// collision resolution, sequential write. Resolution and writing both need
// a complete view across all mods, so only the scan phase is concurrent.
package merge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modmerge/internal/diag"
	"modmerge/internal/emit"
	"modmerge/internal/modfile"
	"modmerge/internal/pipeline"
	"modmerge/internal/resolve"
	"modmerge/internal/scan"
)

const defaultMaxWarnings = 100

// Options configures one merge run.
type Options struct {
	Jobs        int
	MaxWarnings int // warning cap; <=0 means defaultMaxWarnings
	Policy      resolve.Policy
	Cache       *scan.Cache
	Sink        pipeline.ProgressSink
	// Header prepends a synthesized #modname/#description for the
	// combined file.
	Header bool
}

// Result of a successful run. Warnings are ordered; fatal errors never
// produce a Result.
type Result struct {
	Order    []string
	Remaps   map[string]modfile.RemapTable
	Warnings []diag.Warning
}

// Scan runs only the scan phase, for inventory-style commands.
func Scan(ctx context.Context, files []*modfile.ModFile, opts Options) (map[string]*modfile.ModDefinition, []diag.Warning, error) {
	bag := newBag(opts)
	defs, err := scan.ScanAll(ctx, files, scanOptions(opts), bag)
	if err != nil {
		return nil, nil, err
	}
	return defs, bag.Items(), nil
}

// Plan runs scan + resolve without writing: the dry-run remap tables.
func Plan(ctx context.Context, files []*modfile.ModFile, opts Options) (*Result, error) {
	bag := newBag(opts)
	defs, tables, err := scanAndResolve(ctx, files, opts, bag)
	if err != nil {
		return nil, err
	}
	return &Result{Order: resolve.Order(defs), Remaps: tables, Warnings: bag.Items()}, nil
}

// Merge runs the full pipeline and streams the combined file into sink.
// Any phase error aborts the run; partial output is never a valid merge.
func Merge(ctx context.Context, files []*modfile.ModFile, sink emit.LineWriter, opts Options) (*Result, error) {
	bag := newBag(opts)
	defs, tables, err := scanAndResolve(ctx, files, opts, bag)
	if err != nil {
		return nil, err
	}

	order := resolve.Order(defs)
	byName := make(map[string]*modfile.ModFile, len(files))
	for _, f := range files {
		if _, ok := byName[f.Name]; !ok {
			byName[f.Name] = f
		}
	}

	if opts.Header {
		if err := writeHeader(sink, order, defs); err != nil {
			return nil, err
		}
	}

	for _, name := range order {
		start := time.Now()
		pipeline.Emit(opts.Sink, pipeline.Event{Mod: name, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
		m := &modfile.MappedMod{File: byName[name], Def: defs[name], Remap: tables[name]}
		if err := emit.WriteMod(sink, m, bag); err != nil {
			pipeline.Emit(opts.Sink, pipeline.Event{
				Mod: name, Stage: pipeline.StageWrite,
				Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start),
			})
			return nil, err
		}
		pipeline.Emit(opts.Sink, pipeline.Event{
			Mod: name, Stage: pipeline.StageWrite,
			Status: pipeline.StatusDone, Elapsed: time.Since(start),
		})
	}

	return &Result{Order: order, Remaps: tables, Warnings: bag.Items()}, nil
}

func newBag(opts Options) *diag.Bag {
	maxWarnings := opts.MaxWarnings
	if maxWarnings <= 0 {
		maxWarnings = defaultMaxWarnings
	}
	return diag.NewBag(maxWarnings)
}

func scanOptions(opts Options) scan.Options {
	return scan.Options{Jobs: opts.Jobs, Cache: opts.Cache, Sink: opts.Sink}
}

func scanAndResolve(ctx context.Context, files []*modfile.ModFile, opts Options, bag *diag.Bag) (map[string]*modfile.ModDefinition, map[string]modfile.RemapTable, error) {
	policy := opts.Policy
	if policy.Ranges == nil {
		policy = resolve.DefaultPolicy()
	}

	defs, err := scan.ScanAll(ctx, files, scanOptions(opts), bag)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	pipeline.Emit(opts.Sink, pipeline.Event{Stage: pipeline.StageResolve, Status: pipeline.StatusWorking})
	tables, err := resolve.Resolve(defs, policy)
	if err != nil {
		pipeline.Emit(opts.Sink, pipeline.Event{
			Stage: pipeline.StageResolve, Status: pipeline.StatusError,
			Err: err, Elapsed: time.Since(start),
		})
		return nil, nil, err
	}
	pipeline.Emit(opts.Sink, pipeline.Event{
		Stage: pipeline.StageResolve, Status: pipeline.StatusDone, Elapsed: time.Since(start),
	})
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return defs, tables, nil
}

// writeHeader synthesizes the combined file's own metadata from the inputs.
func writeHeader(sink emit.LineWriter, order []string, defs map[string]*modfile.ModDefinition) error {
	titles := make([]string, len(order))
	for i, name := range order {
		titles[i] = defs[name].Title()
	}
	lines := []string{
		fmt.Sprintf("#modname \"Merged: %s\"", strings.Join(titles, " + ")),
		fmt.Sprintf("#description \"Combined from %d mod(s) by modmerge.\"", len(order)),
		"#version 1.00",
		"",
	}
	for _, s := range lines {
		if err := sink.WriteLine(s); err != nil {
			return fmt.Errorf("write merged header: %w", err)
		}
	}
	return nil
}
