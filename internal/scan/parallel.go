package scan

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
	"modmerge/internal/pipeline"
)

// Options controls the parallel scan phase.
type Options struct {
	Jobs  int    // worker limit; <=0 means GOMAXPROCS
	Cache *Cache // optional parse cache
	Sink  pipeline.ProgressSink
}

// ScanAll parses every mod file by an independent task. Tasks share no
// mutable state; results land in per-index slots and are joined after all
// complete, so no locks are needed. A single file's ScanError aborts the
// whole scan: a silently dropped mod would desync the merge. Cancellation
// of ctx stops in-flight tasks promptly.
func ScanAll(ctx context.Context, files []*modfile.ModFile, opts Options, bag *diag.Bag) (map[string]*modfile.ModDefinition, error) {
	defs := make(map[string]*modfile.ModDefinition, len(files))
	if len(files) == 0 {
		return defs, nil
	}

	// Фиксированный порядок: стабильные отчёты и слияние bag'ов.
	ordered := make([]*modfile.ModFile, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	type result struct {
		def *modfile.ModDefinition
		bag *diag.Bag
	}
	// Индекс уникален для каждой горутины, мьютекс не нужен.
	results := make([]result, len(ordered))

	for _, file := range ordered {
		pipeline.Emit(opts.Sink, pipeline.Event{Mod: file.Name, Stage: pipeline.StageScan, Status: pipeline.StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ordered)))

	for i, file := range ordered {
		g.Go(func(i int, file *modfile.ModFile) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				start := time.Now()
				pipeline.Emit(opts.Sink, pipeline.Event{Mod: file.Name, Stage: pipeline.StageScan, Status: pipeline.StatusWorking})

				taskBag := diag.NewBag(int(bag.Cap()))

				if opts.Cache != nil {
					def, warns, hit, err := opts.Cache.Get(file)
					if err != nil {
						taskBag.Warnf(diag.WarnCache, file.Name, "cache read failed: %v", err)
					}
					if hit {
						// Тёплый прогон сохраняет предупреждения парсинга.
						for _, w := range warns {
							taskBag.Add(w)
						}
						results[i] = result{def: def, bag: taskBag}
						pipeline.Emit(opts.Sink, pipeline.Event{
							Mod: file.Name, Stage: pipeline.StageScan,
							Status: pipeline.StatusDone, Elapsed: time.Since(start),
						})
						return nil
					}
				}

				// Parse warnings get their own bag so only they are cached,
				// never cache-IO ones.
				parseBag := diag.NewBag(int(bag.Cap()))
				def, err := Parse(file, parseBag)
				if err != nil {
					pipeline.Emit(opts.Sink, pipeline.Event{
						Mod: file.Name, Stage: pipeline.StageScan,
						Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start),
					})
					return err
				}
				if opts.Cache != nil {
					if err := opts.Cache.Put(file, def, parseBag.Items()); err != nil {
						taskBag.Warnf(diag.WarnCache, file.Name, "cache write failed: %v", err)
					}
				}
				taskBag.Merge(parseBag)

				results[i] = result{def: def, bag: taskBag}
				pipeline.Emit(opts.Sink, pipeline.Event{
					Mod: file.Name, Stage: pipeline.StageScan,
					Status: pipeline.StatusDone, Elapsed: time.Since(start),
				})
				return nil
			}
		}(i, file))
	}

	if err := g.Wait(); err != nil {
		// Частичные результаты наружу не отдаём.
		return nil, err
	}

	for i, file := range ordered {
		bag.Merge(results[i].bag)
		if _, dup := defs[file.Name]; dup {
			bag.Warnf(diag.WarnDuplicateMod, file.Name, "duplicate mod name, keeping first occurrence")
			continue
		}
		defs[file.Name] = results[i].def
	}
	return defs, nil
}
