package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/colefield/parley/internal/modules/moderation"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single pin-expiry sweep",
	Long: `Runs one pin-expiry pass over every pinned topic and unpins the ones
whose expiry timestamp has passed. This is the same pass the server runs on
its cron schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		s, err := connect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer s.close(ctx)

		sweeper := moderation.NewSweeper(s.service, s.sets, "* * * * *")
		if err := sweeper.Sweep(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: sweep failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Pin expiry sweep completed.")
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
