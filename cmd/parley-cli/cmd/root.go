package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley-cli",
	Short: "Parley admin CLI",
	Long: `Parley CLI is the administrative command-line interface for the
Parley moderation service.

Available commands:
  sweep        Run a single pin-expiry sweep against the store
  topic get    Inspect a topic's fields and category index placement

Use "parley-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you can define your flags and configuration settings
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.
}
