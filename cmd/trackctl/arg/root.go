package arg

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skillrise/api/config"
)

var (
	serverURL    string
	token        string
	slotPath     string
	trackingPath string
)

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "trackctl drives the SkillRise time tracker from the command line",
	Long: `trackctl replays navigation scripts through the learner time tracker
and mints development tokens for the tracking API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Flag defaults come from the environment, so .env must be loaded first.
	config.LoadDotEnv()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TRACKING_SERVER", "http://localhost:8080"), "tracking API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRACKING_TOKEN"), "bearer token of the signed-in learner")
	rootCmd.PersistentFlags().StringVar(&slotPath, "slot", os.Getenv("TRACKING_SLOT"), "pending-flush slot file (default under XDG data home)")
	rootCmd.PersistentFlags().StringVar(&trackingPath, "config", os.Getenv("TRACKING_CONFIG"), "tracking TOML file")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
