package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"termcore/ptyio"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command through the terminal engine and print the final screen",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = append([]string{cfg.Shell}, cfg.ShellArgs...)
			}

			term, err := buildTerminal(cfg)
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

			if err := session.Wait(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), term.String())
			return nil
		},
	}
	return cmd
}
