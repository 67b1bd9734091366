package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"dashlint/internal/diag"
	"dashlint/internal/lint"
	"dashlint/internal/observ"
	"dashlint/internal/source"
	"dashlint/internal/trace"
)

// Options configures CheckFiles.
type Options struct {
	Runner *lint.Runner
	// Jobs bounds concurrent files; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache is optional; nil disables caching.
	Cache *Cache
	// Fingerprint overrides the cache fingerprint derived from Runner.
	Fingerprint string
	// Events, when set, receives progress. CheckFiles never closes it.
	Events chan<- Event
	// Timer, when set, records the load and lint phases.
	Timer   *observ.Timer
	BaseDir string
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Diagnostics []diag.Diagnostic
	Fatal       bool
	Suppressed  int
	Cached      bool
	// Err is set when the file could not be read; nothing else is valid then.
	Err error
}

// Report collects the results of a run in path order.
type Report struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// CheckFiles lints paths concurrently. Results are stored by index so the
// report order is the sorted path order regardless of scheduling. A file
// that fails to load is recorded in its FileResult and does not stop the run;
// the returned error is only set when ctx is cancelled.
func CheckFiles(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if opts.Runner == nil {
		return nil, errors.New("driver: no runner")
	}
	paths = slices.Clone(paths)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	span.WithExtra("files", strconv.Itoa(len(paths)))
	defer span.End("")

	if opts.Fingerprint == "" {
		opts.Fingerprint = Fingerprint(opts.Runner.Rules(), opts.Runner.Config().NoInlineConfig)
	}

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	results := make([]FileResult, len(paths))

	endLoad := opts.Timer.Start("load")
	for i, p := range paths {
		results[i].Path = p
		id, err := fileSet.Load(p)
		if err != nil {
			results[i].Err = fmt.Errorf("load %s: %w", p, err)
			continue
		}
		results[i].FileID = id
	}
	endLoad(fmt.Sprintf("%d files", len(paths)))

	report := &Report{FileSet: fileSet, Files: results}
	if len(paths) == 0 {
		return report, nil
	}

	for _, p := range paths {
		opts.emit(ctx, Event{File: p, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	endLint := opts.Timer.Start("lint")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range results {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// index i is owned by this goroutine
			checkOne(gctx, fileSet, &results[i], &opts)
			return nil
		})
	}
	err := g.Wait()
	endLint(fmt.Sprintf("%d cached", report.CachedCount()))
	if err != nil {
		return report, err
	}
	return report, nil
}

func checkOne(ctx context.Context, fs *source.FileSet, res *FileResult, opts *Options) {
	if res.Err != nil {
		opts.emit(ctx, Event{File: res.Path, Status: StatusError})
		return
	}
	opts.emit(ctx, Event{File: res.Path, Status: StatusWorking})

	file := fs.Get(res.FileID)

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor(opts.Fingerprint, file.Path, file.Hash)
		var entry CacheEntry
		hit, err := opts.Cache.Get(key, &entry)
		if err != nil {
			trace.Pointf(ctx, trace.ScopeFile, "cache", "read "+res.Path+": "+err.Error())
		}
		if hit && entry.ContentHash == file.Hash {
			res.Diagnostics = rebind(entry.Diagnostics, res.FileID)
			res.Fatal = entry.Fatal
			res.Suppressed = entry.Suppressed
			res.Cached = true
			opts.emit(ctx, Event{File: res.Path, Status: StatusCached, Diagnostics: len(res.Diagnostics)})
			return
		}
	}

	lr := opts.Runner.Run(ctx, fs, res.FileID)
	res.Diagnostics = lr.Diagnostics
	res.Fatal = lr.Fatal
	res.Suppressed = lr.Suppressed

	if opts.Cache != nil {
		err := opts.Cache.Put(key, &CacheEntry{
			Path:        file.Path,
			ContentHash: file.Hash,
			Fatal:       lr.Fatal,
			Suppressed:  lr.Suppressed,
			Diagnostics: lr.Diagnostics,
		})
		if err != nil {
			trace.Pointf(ctx, trace.ScopeFile, "cache", "write "+res.Path+": "+err.Error())
		}
	}

	status := StatusDone
	if lr.Fatal {
		status = StatusError
	}
	opts.emit(ctx, Event{File: res.Path, Status: status, Diagnostics: len(res.Diagnostics)})
}

// ErrorCount counts error diagnostics plus unreadable files.
func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
			continue
		}
		for _, d := range f.Diagnostics {
			if d.Severity >= diag.SevError {
				n++
			}
		}
	}
	return n
}

// WarningCount counts warning diagnostics.
func (r *Report) WarningCount() int {
	n := 0
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			if d.Severity == diag.SevWarning {
				n++
			}
		}
	}
	return n
}

// CachedCount counts files served from the cache.
func (r *Report) CachedCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

// Bag merges all results into one bag in path order. Unreadable files show up
// as IO errors without a location.
func (r *Report) Bag(maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, f := range r.Files {
		if f.Err != nil {
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: source.NoFile}, f.Err.Error()))
			continue
		}
		for _, d := range f.Diagnostics {
			bag.Add(d)
		}
	}
	return bag
}
