package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajaykumartn/cognipath-ai-2/internal/config"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all locally cached data",
	Long:  "Clears the stored credential, the cached report, and the local answer log. Server-side data is untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer st.Close()

		if err := st.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset cache: %w", err)
		}
		fmt.Println("Local data cleared.")
		return nil
	},
}
