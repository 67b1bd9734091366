package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dashlint/internal/config"
	"dashlint/internal/lsp"
	"dashlint/internal/version"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the dashlint language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	cmd.Flags().String("config", "", "config file (default: nearest "+config.FileName+")")
	cmd.Flags().Duration("debounce", 150*time.Millisecond, "delay before re-linting a changed document")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	cfg, err := config.Discover(".", configPath)
	if err != nil {
		return err
	}
	runner, err := buildRunner(cfg, nil, 0, false)
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Runner:   runner,
		Debounce: debounce,
		Version:  version.Version,
		Log:      cmd.ErrOrStderr(),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
