package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

// ReportRepo caches the most recent report snapshot returned by a graded
// submission, for display on the dashboard and for sharing.
type ReportRepo struct {
	db *sql.DB
}

// SaveLatest stores the report, replacing any previous snapshot.
func (r *ReportRepo) SaveLatest(ctx context.Context, rep *api.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO report_snapshot (id, data_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data_json = excluded.data_json, updated_at = excluded.updated_at`,
		string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save report snapshot: %w", err)
	}
	return nil
}

// Latest returns the cached report, or nil when none has been stored.
func (r *ReportRepo) Latest(ctx context.Context) (*api.Report, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data_json FROM report_snapshot WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load report snapshot: %w", err)
	}

	var rep api.Report
	if err := json.Unmarshal([]byte(data), &rep); err != nil {
		// A corrupt cache entry is treated as absence.
		return nil, nil
	}
	return &rep, nil
}
