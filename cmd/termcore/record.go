package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"termcore/ptyio"
	"termcore/reftest"
)

func newRecordCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "record --out=<fixture> -- <command> [args...]",
		Short: "Run a command, recording its input and a final checkpoint to a ref-test fixture",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = append([]string{cfg.Shell}, cfg.ShellArgs...)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating fixture %s: %w", out, err)
			}
			defer f.Close()

			recorder := reftest.NewRecorder(f)
			term, err := buildTerminalWithRecorder(cfg, recorder)
			if err != nil {
				return err
			}

			session, err := ptyio.Start(args[0], args[1:], cfg.Rows, cfg.Cols)
			if err != nil {
				return fmt.Errorf("starting %q: %w", args[0], err)
			}
			defer session.Close()

			loop := ptyio.NewLoop(session, term)
			if err := loop.Run(); err != nil {
				return fmt.Errorf("pty loop: %w", err)
			}
			_ = session.Wait()

			if err := recorder.Checkpoint(term); err != nil {
				return fmt.Errorf("writing checkpoint: %w", err)
			}
			if err := recorder.Err(); err != nil {
				return fmt.Errorf("recording fixture: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "fixture output path")
	return cmd
}
