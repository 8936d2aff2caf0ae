package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/app"
	"github.com/ajaykumartn/cognipath-ai-2/internal/config"
	"github.com/ajaykumartn/cognipath-ai-2/internal/logging"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive client",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// runApp loads config, opens the local cache, builds dependencies, and
// launches the TUI. A non-empty reportID skips straight to the shared
// report viewer.
func runApp(cmd *cobra.Command, reportID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.APIBaseURL = u
	}

	log, err := logging.New(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer log.Sync()

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve cache path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer st.Close()

	state := account.New(st.CredentialRepo())
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, state, log)

	return app.Run(app.Deps{
		Client:   client,
		State:    state,
		Reports:  st.ReportRepo(),
		Answers:  st.AnswerRepo(),
		Log:      log,
		ReportID: reportID,
	})
}
