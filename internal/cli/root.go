// Package cli implements the engage command-line interface using Cobra.
// Commands operate on the local store through the same services the HTTP
// API uses, so ops and debugging never bypass the engine's invariants.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "engage",
	Short: "engage — points, levels, achievements and leaderboards",
	Long: `engage is the engagement engine behind the heritage platform.
It turns user activity events into points, levels, achievement unlocks,
streaks and ranked leaderboards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
