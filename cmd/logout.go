package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajaykumartn/cognipath-ai-2/internal/config"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session credential",
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

		if err := st.CredentialRepo().ClearToken(cmd.Context()); err != nil {
			return fmt.Errorf("clear credential: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}
