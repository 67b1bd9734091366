package lint

import (
	"context"
	"errors"
	"fmt"

	"dashlint/internal/diag"
	"dashlint/internal/estree"
	"dashlint/internal/source"
	"dashlint/internal/trace"
)

// ErrUnknownRule is returned when configuration names a rule nobody registered.
var ErrUnknownRule = errors.New("unknown rule")

// Enabled pairs a rule with its configured level.
type Enabled struct {
	Rule  Rule
	Level Level
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Rules []Enabled
	// MaxDiagnostics caps diagnostics per file (0 = no practical limit).
	MaxDiagnostics int
	// NoInlineConfig ignores eslint-disable style comments.
	NoInlineConfig bool
}

// Result is the outcome of linting one file.
type Result struct {
	Diagnostics []diag.Diagnostic
	// Fatal is set when the file failed to parse; rules did not run.
	Fatal bool
	// Suppressed counts rule diagnostics silenced by inline directives.
	Suppressed int
}

// ErrorCount returns the number of error diagnostics.
func (r Result) ErrorCount() int {
	n := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity >= diag.SevError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning diagnostics.
func (r Result) WarningCount() int {
	n := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity == diag.SevWarning {
			n++
		}
	}
	return n
}

// Runner lints files with a fixed set of enabled rules. It holds no per-file
// state and may be shared between goroutines.
type Runner struct {
	config RunnerConfig
}

// NewRunner creates a runner.
func NewRunner(config RunnerConfig) *Runner {
	return &Runner{config: config}
}

// Rules returns the enabled rules.
func (r *Runner) Rules() []Enabled {
	return r.config.Rules
}

// Config returns the configuration the runner was built with.
func (r *Runner) Config() RunnerConfig {
	return r.config
}

// Run parses the file and runs every enabled rule over it. A file with parse
// errors reports them as errors and is not linted further.
func (r *Runner) Run(ctx context.Context, fs *source.FileSet, id source.FileID) Result {
	file := fs.Get(id)
	if file == nil {
		return Result{}
	}

	ctx, span := trace.Start(ctx, trace.ScopeFile, "lint")
	span.WithExtra("path", file.Path)

	bag := diag.NewBag(r.config.MaxDiagnostics)
	prog, perrs := estree.Parse(file, estree.OptionsForPath(file.Path))
	if len(perrs) > 0 {
		for _, pe := range perrs {
			start, end := fs.Resolve(pe.Span)
			diag.ReportError(diag.BagReporter{Bag: bag}, pe.Code, pe.Span, "Parsing error: "+pe.Message).
				WithLocation(diag.Location{Start: start, End: end}).
				Emit()
		}
		trace.Pointf(ctx, trace.ScopeFile, "skip", fmt.Sprintf("%s: %d parse errors", file.Path, len(perrs)))
		bag.Sort()
		span.End("fatal")
		return Result{Diagnostics: bag.Items(), Fatal: true}
	}

	var dirs *Directives
	if !r.config.NoInlineConfig {
		dirs = ParseDirectives(fs, prog)
	}

	res := Result{}
	sink := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	filter := diag.ReporterFunc(func(d diag.Diagnostic) {
		if dirs.Suppressed(d.Rule, d.Primary.Start, d.Loc.Start.Line) {
			res.Suppressed++
			return
		}
		sink.Report(d)
	})

	ctxs := make([]*Context, len(r.config.Rules))
	for i, en := range r.config.Rules {
		ctxs[i] = NewContext(fs, prog, en.Rule, en.Level, filter)
	}

	estree.Walk(prog, func(n estree.Node) bool {
		for i, en := range r.config.Rules {
			en.Rule.Visit(ctxs[i], n)
		}
		return true
	})
	for i, en := range r.config.Rules {
		_, rs := trace.Start(ctx, trace.ScopeRule, ctxs[i].meta.ID())
		en.Rule.Exit(ctxs[i])
		rs.End("")
	}

	bag.Sort()
	res.Diagnostics = bag.Items()
	span.WithExtra("diagnostics", fmt.Sprint(len(res.Diagnostics))).End("")
	return res
}
