package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dashlint/internal/config"
	"dashlint/internal/diag"
	"dashlint/internal/diagfmt"
	"dashlint/internal/driver"
	"dashlint/internal/lint"
	"dashlint/internal/observ"
	"dashlint/internal/rules"
	"dashlint/internal/ui"
	"dashlint/internal/version"
)

const projectURL = "https://github.com/bnap00/eslint-plugin-em-dash-checker"

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Report em-dash characters in source files",
		Long: `Check lints the given files and directories (default ".").
Directories are walked recursively; only configured extensions are checked.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("config", "", "config file (default: nearest "+config.FileName+")")
	cmd.Flags().StringSlice("bundle", nil, "extra bundle to apply after extends (repeatable)")
	cmd.Flags().Int("max-warnings", -1, "fail when warnings exceed this number (-1 disables)")
	cmd.Flags().Int("jobs", 0, "files checked in parallel (0 = GOMAXPROCS)")
	cmd.Flags().Bool("cache", false, "reuse results for unchanged files")
	cmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("suggest", false, "show fix suggestions with previews")
	cmd.Flags().Bool("fullpath", false, "print absolute paths")
	cmd.Flags().Bool("no-inline-config", false, "ignore eslint-disable comments")
	return cmd
}

type checkFlags struct {
	format         string
	configPath     string
	bundles        []string
	maxWarnings    int
	jobs           int
	useCache       bool
	cacheDir       string
	ui             uiMode
	suggest        bool
	fullPath       bool
	noInlineConfig bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, err
	}
	if f.configPath, err = flags.GetString("config"); err != nil {
		return f, err
	}
	if f.bundles, err = flags.GetStringSlice("bundle"); err != nil {
		return f, err
	}
	if f.maxWarnings, err = flags.GetInt("max-warnings"); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.useCache, err = flags.GetBool("cache"); err != nil {
		return f, err
	}
	if f.cacheDir, err = flags.GetString("cache-dir"); err != nil {
		return f, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, err
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, err
	}
	if f.noInlineConfig, err = flags.GetBool("no-inline-config"); err != nil {
		return f, err
	}
	if f.quiet, err = flags.GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = flags.GetBool("timings"); err != nil {
		return f, err
	}
	if f.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return f, err
	}
	return f, nil
}

// buildRunner resolves cfg plus extra bundles into a runner.
func buildRunner(cfg *config.Config, bundles []string, maxDiagnostics int, noInline bool) (*lint.Runner, error) {
	levels, err := cfg.Levels(bundles...)
	if err != nil {
		return nil, err
	}
	enabled, err := rules.NewRegistry().Resolve(levels)
	if err != nil {
		return nil, err
	}
	return lint.NewRunner(lint.RunnerConfig{
		Rules:          enabled,
		MaxDiagnostics: maxDiagnostics,
		NoInlineConfig: noInline || cfg.NoInlineConfig,
	}), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	timer := observ.NewTimer()

	endConfig := timer.Start("config")
	cfg, err := config.Discover(".", flags.configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("format") && cfg.Output.Format != "" {
		flags.format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("max-warnings") {
		flags.maxWarnings = cfg.Output.MaxWarnings
	}
	flags.format = strings.ToLower(flags.format)
	switch flags.format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short, json or sarif)", flags.format)
	}
	runner, err := buildRunner(cfg, flags.bundles, 0, flags.noInlineConfig)
	if err != nil {
		return err
	}
	endConfig(cfg.Path)

	if len(args) == 0 {
		args = []string{"."}
	}
	endDiscover := timer.Start("discover")
	paths, err := driver.Discover(cfg, args)
	if err != nil {
		return err
	}
	endDiscover(fmt.Sprintf("%d files", len(paths)))

	var cache *driver.Cache
	if flags.useCache {
		if cache, err = driver.OpenCache(flags.cacheDir); err != nil {
			return err
		}
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	opts := driver.Options{
		Runner:  runner,
		Jobs:    flags.jobs,
		Cache:   cache,
		Timer:   timer,
		BaseDir: baseDir,
	}

	var (
		wg    sync.WaitGroup
		uiErr error
	)
	var events chan driver.Event
	if len(paths) > 0 && shouldUseTUI(flags.ui, flags.quiet) {
		events = make(chan driver.Event, 256)
		opts.Events = events
		wg.Add(1)
		go func() {
			defer wg.Done()
			uiErr = ui.Run(errOut, "dashlint check", paths, events)
		}()
	}

	report, err := driver.CheckFiles(ctx, paths, opts)
	if events != nil {
		close(events)
		wg.Wait()
		if uiErr != nil {
			fmt.Fprintf(errOut, "dashlint: progress UI: %v\n", uiErr)
		}
	}
	if err != nil {
		return err
	}

	bag := report.Bag(flags.maxDiagnostics)
	if flags.quiet {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	}

	endReport := timer.Start("report")
	if err := writeReport(cmd, out, errOut, bag, report, runner, cfg, flags); err != nil {
		return err
	}
	endReport(flags.format)

	errors, warnings := report.ErrorCount(), report.WarningCount()
	if !flags.quiet && (flags.format == "pretty" || flags.format == "short") {
		writeSummary(out, len(paths), errors, warnings, report.CachedCount())
	}
	if flags.timings {
		fmt.Fprint(errOut, timer.Summary())
	}

	if errors > 0 {
		return errFailed
	}
	if flags.maxWarnings >= 0 && warnings > flags.maxWarnings {
		fmt.Fprintf(errOut, "dashlint: too many warnings (%d, maximum allowed is %d)\n", warnings, flags.maxWarnings)
		return errFailed
	}
	return nil
}

func writeReport(cmd *cobra.Command, out, errOut io.Writer, bag *diag.Bag, report *driver.Report, runner *lint.Runner, cfg *config.Config, flags checkFlags) error {
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch flags.format {
	case "pretty":
		useColor, err := colorEnabled(cmd, cfg.Output.Color)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, bag, report.FileSet, diagfmt.PrettyOpts{
			Color:       useColor,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   true,
			ShowFixes:   flags.suggest,
			ShowPreview: flags.suggest,
		})
	case "short":
		text := diag.FormatShortDiagnostics(bag.Items(), report.FileSet, false, pathMode.String())
		if text != "" {
			fmt.Fprintln(out, text)
		}
		// short lines need a location; unreadable files go to stderr
		for _, f := range report.Files {
			if f.Err != nil {
				fmt.Fprintf(errOut, "dashlint: %v\n", f.Err)
			}
		}
	case "json":
		return diagfmt.JSON(out, bag, report.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     flags.suggest,
			IncludePreviews:  flags.suggest,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, report.FileSet, sarifMeta(runner))
	}
	return nil
}

func sarifMeta(runner *lint.Runner) diagfmt.SarifRunMeta {
	meta := diagfmt.SarifRunMeta{
		ToolName:       "dashlint",
		ToolVersion:    version.Version,
		InformationURI: projectURL,
		InvocationArgs: os.Args[1:],
	}
	for _, en := range runner.Rules() {
		m := en.Rule.Meta()
		meta.Rules = append(meta.Rules, diagfmt.SarifRule{
			ID:          m.ID(),
			Name:        m.Name,
			Description: m.Description,
			HelpURI:     m.URL,
			Level:       sarifLevelFor(en.Level),
		})
	}
	return meta
}

func sarifLevelFor(l lint.Level) string {
	if l == lint.LevelError {
		return "error"
	}
	return "warning"
}

func writeSummary(out io.Writer, files, errors, warnings, cached int) {
	problems := errors + warnings
	if problems == 0 {
		fmt.Fprintf(out, "%s checked, no problems\n", plural(files, "file"))
		return
	}
	fmt.Fprintf(out, "\n%s (%s, %s)", plural(problems, "problem"), plural(errors, "error"), plural(warnings, "warning"))
	if cached > 0 {
		fmt.Fprintf(out, ", %d cached", cached)
	}
	fmt.Fprintln(out)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
