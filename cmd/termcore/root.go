package main

import (
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "termcore",
		Short: "Drive the termcore terminal engine against a real shell",
		Long: `termcore wires the termcore library to a pseudo-terminal and a shell,
to run commands through the VT parser and state machine, and to record or
replay ref-test fixtures against it.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a termconfig YAML file (defaults built in if omitted)")
	// Registered so cobra accepts -v/--verbose; main's parseVerbose acts on it.
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging to stderr")

	root.AddCommand(newRunCmd())
	root.AddCommand(newRecordCmd())
	root.AddCommand(newReplayCmd())
	return root
}
