package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CredentialRepo persists the single bearer credential. The token is an
// opaque string; the client never inspects it.
type CredentialRepo struct {
	db *sql.DB
}

// SaveToken stores the credential, replacing any previous one.
func (r *CredentialRepo) SaveToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credential (id, token, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// LoadToken returns the stored credential, or "" when none is held.
func (r *CredentialRepo) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, "SELECT token FROM credential WHERE id = 1").Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return token, nil
}

// ClearToken discards the stored credential. Clearing an absent credential
// is not an error.
func (r *CredentialRepo) ClearToken(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM credential WHERE id = 1"); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
