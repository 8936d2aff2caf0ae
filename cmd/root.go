package cmd

import (
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cognipath",
	Short: "Adaptive learning in your terminal",
	Long:  "CogniPath AI — terminal client for adaptive quiz sessions, cognitive fingerprints, and AI coaching.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Base URL of the CogniPath API (overrides COGNIPATH_API_URL env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite cache file (overrides COGNIPATH_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the cache path using --db flag (highest priority),
// then COGNIPATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, envPath string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if envPath != "" {
		return envPath, store.EnsureDir(envPath)
	}
	return store.DefaultDBPath()
}
