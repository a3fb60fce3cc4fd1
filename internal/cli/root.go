// Package cli implements the quizwire command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("QUIZWIRE_CONFIG")

	cmd := &cobra.Command{
		Use:   "quizwire",
		Short: "Live quiz session server",
		Long:  "quizwire hosts live multiplayer quiz sessions over websockets.",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", configPath, "path to YAML config file")
	cmd.AddCommand(newServeCmd(&configPath))
	return cmd
}
