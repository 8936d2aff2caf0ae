// Package account holds the shared authentication state: the bearer
// credential and the cached user profile. All mutation goes through
// SetSession and Clear so no screen keeps its own copy of auth state.
package account

import (
	"context"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

// CredentialStore persists the bearer token between runs.
type CredentialStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// State is the single auth-state object shared by every screen. The TUI is
// single-threaded, so no locking is needed.
type State struct {
	token string
	user  *api.User
	creds CredentialStore
}

// New creates a State backed by the given credential store.
func New(creds CredentialStore) *State {
	return &State{creds: creds}
}

// Token implements api.TokenSource.
func (s *State) Token() string {
	return s.token
}

// User returns the cached profile, nil when unauthenticated.
func (s *State) User() *api.User {
	return s.user
}

// Authenticated reports whether a resolved profile is held.
func (s *State) Authenticated() bool {
	return s.token != "" && s.user != nil
}

// Restore loads a persisted credential without resolving it. Returns false
// when no credential is stored.
func (s *State) Restore(ctx context.Context) bool {
	tok, err := s.creds.LoadToken(ctx)
	if err != nil || tok == "" {
		return false
	}
	s.token = tok
	return true
}

// SetSession records a fresh credential and profile, persisting the token.
func (s *State) SetSession(ctx context.Context, token string, user *api.User) {
	s.token = token
	s.user = user
	_ = s.creds.SaveToken(ctx, token)
}

// SetUser replaces the cached profile after a refresh.
func (s *State) SetUser(user *api.User) {
	s.user = user
}

// Clear discards the credential and cached user. It is the logout path and
// the forced-termination path for any 401; it never calls the network.
func (s *State) Clear(ctx context.Context) {
	s.token = ""
	s.user = nil
	_ = s.creds.ClearToken(ctx)
}
