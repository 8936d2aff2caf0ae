package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

type memCreds struct {
	token string
}

func (m *memCreds) SaveToken(_ context.Context, token string) error { m.token = token; return nil }
func (m *memCreds) LoadToken(_ context.Context) (string, error)     { return m.token, nil }
func (m *memCreds) ClearToken(_ context.Context) error              { m.token = ""; return nil }

func TestSetSessionPersistsToken(t *testing.T) {
	creds := &memCreds{}
	s := New(creds)

	s.SetSession(context.Background(), "tok-1", &api.User{ID: 1, Name: "Alice"})
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "tok-1", creds.token)
	assert.True(t, s.Authenticated())
}

func TestRestoreLoadsPersistedCredential(t *testing.T) {
	creds := &memCreds{token: "tok-saved"}
	s := New(creds)

	require.True(t, s.Restore(context.Background()))
	assert.Equal(t, "tok-saved", s.Token())

	// A token alone is not an authenticated session; the profile must
	// still be resolved.
	assert.False(t, s.Authenticated())
}

func TestRestoreWithNoCredential(t *testing.T) {
	s := New(&memCreds{})
	assert.False(t, s.Restore(context.Background()))
}

func TestClearDropsEverything(t *testing.T) {
	creds := &memCreds{}
	s := New(creds)
	s.SetSession(context.Background(), "tok", &api.User{ID: 1})

	s.Clear(context.Background())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, creds.token)
	assert.False(t, s.Authenticated())
}
