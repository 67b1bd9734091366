package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dashlint/internal/version"
)

// errFailed means the command ran and found problems; main exits 1 without
// printing anything more.
var errFailed = errors.New("problems found")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashlint",
		Short:         "Find em-dash characters in JavaScript and TypeScript sources",
		Long:          `dashlint reports U+2014 EM DASH characters in string literals, template literals, JSX text and comments, and suggests ASCII replacements.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "report errors only and skip the summary")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	root.PersistentFlags().String("trace", "", "write trace events to file (\"-\" for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
	for _, name := range []string{"cpu-profile", "mem-profile", "runtime-trace"} {
		_ = root.PersistentFlags().MarkHidden(name)
	}

	var cleanups []func()
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiling)
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTracing)
		return nil
	}
	root.PersistentPostRun = func(*cobra.Command, []string) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs root and maps its error onto an exit code: 0 clean,
// 1 problems found, 2 usage or runtime failure.
func execute(root *cobra.Command) int {
	err := root.Execute()
	// cobra skips post-run hooks when RunE fails
	if root.PersistentPostRun != nil {
		root.PersistentPostRun(root, nil)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 1
	default:
		fmt.Fprintf(root.ErrOrStderr(), "dashlint: %v\n", err)
		return 2
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color, falling back to the config value and then
// to terminal detection on stdout.
func colorEnabled(cmd *cobra.Command, fromConfig string) (bool, error) {
	value, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	if !cmd.Flags().Changed("color") && fromConfig != "" {
		value = fromConfig
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
