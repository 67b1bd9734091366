package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dashlint/internal/config"
	"dashlint/internal/fix"
	"dashlint/internal/rules/noemdash"
	"dashlint/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Print a copy of a file with selected suggestions applied",
		Long: `Fix applies suggestions chosen explicitly, either one replacement option for
every em-dash (--with hyphen) or a single suggestion by id (--id RULE:OFFSET:OPTION).
The patched text goes to stdout or --out; the input file is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: runFix,
	}
	cmd.Flags().String("with", "", "replacement option applied to every em-dash ("+strings.Join(optionNames(), "|")+")")
	cmd.Flags().String("id", "", "apply the single suggestion with this id")
	cmd.Flags().String("out", "", "write the patched file here instead of stdout")
	cmd.Flags().String("config", "", "config file (default: nearest "+config.FileName+")")
	cmd.Flags().StringSlice("bundle", nil, "extra bundle to apply after extends (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("with", "id")
	cmd.MarkFlagsOneRequired("with", "id")
	return cmd
}

func optionNames() []string {
	opts := noemdash.Options()
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return names
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	with, err := cmd.Flags().GetString("with")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	bundles, err := cmd.Flags().GetStringSlice("bundle")
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: id}
	if with != "" {
		if _, ok := noemdash.Option(with); !ok {
			return fmt.Errorf("unknown replacement option %q (expected %s)", with, strings.Join(optionNames(), "|"))
		}
		opts = fix.ApplyOptions{Mode: fix.ApplyModeOption, TargetID: with}
	}

	if outPath != "" {
		same, err := samePath(path, outPath)
		if err != nil {
			return err
		}
		if same {
			return fmt.Errorf("--out must differ from the input file %s", path)
		}
	}

	cfg, err := config.Discover(filepath.Dir(path), configPath)
	if err != nil {
		return err
	}
	runner, err := buildRunner(cfg, bundles, 0, false)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return err
	}
	result := runner.Run(cmd.Context(), fs, fileID)
	if result.Fatal {
		msg := path
		if len(result.Diagnostics) > 0 {
			msg = result.Diagnostics[0].Message
		}
		return fmt.Errorf("%s: %s", path, msg)
	}

	applied, err := fix.Apply(fs, result.Diagnostics, opts)
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintf(cmd.ErrOrStderr(), "dashlint: %s: no matching suggestions\n", path)
		return errFailed
	}
	if err != nil {
		return err
	}

	if err := writePatched(cmd.OutOrStdout(), outPath, applied); err != nil {
		return err
	}
	if !quiet {
		reportApplied(cmd.ErrOrStderr(), applied)
	}
	return nil
}

// samePath reports whether a and b name the same file. A missing b is never
// the same file.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}

func writePatched(stdout io.Writer, outPath string, res *fix.ApplyResult) error {
	if len(res.Files) == 0 {
		return nil
	}
	content := res.Files[0].Content
	if outPath == "" {
		_, err := stdout.Write(content)
		return err
	}
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}

func reportApplied(w io.Writer, res *fix.ApplyResult) {
	edits := 0
	for _, f := range res.Files {
		edits += f.EditCount
	}
	fmt.Fprintf(w, "applied %s (%s)\n", plural(len(res.Applied), "suggestion"), plural(edits, "edit"))
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.ID, s.Reason)
	}
}

