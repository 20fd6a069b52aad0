package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"termcore/reftest"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <fixture>",
		Short: "Replay a recorded ref-test fixture and report any divergence from its checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening fixture %s: %w", args[0], err)
			}
			defer f.Close()

			term, err := buildTerminal(cfg)
			if err != nil {
				return err
			}

			sessionID, mismatches, err := reftest.Replay(f, term)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			if len(mismatches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "replay matched every checkpoint (session %s)\n", sessionID)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "session %s:\n", sessionID)
			for _, m := range mismatches {
				fmt.Fprintf(cmd.OutOrStdout(), "checkpoint %d diverged:\n", m.CheckpointIndex)
				for _, d := range m.Diffs {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
				}
			}
			return fmt.Errorf("%d checkpoint(s) diverged", len(mismatches))
		},
	}
	return cmd
}
