package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	configDir string

	rootCmd = &cobra.Command{
		Use:   "wellness",
		Short: "Wellness tracker: interval timer sessions, exercise history and adherence statistics",
		// without a subcommand the API server runs
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the session stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wellness version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yml")
	rootCmd.AddCommand(serveCmd, newStatsCmd(), versionCmd)
}

// @title        Wellness Tracker API
// @version      1.0
// @description  Interval-timer exercise sessions, history and adherence statistics.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
