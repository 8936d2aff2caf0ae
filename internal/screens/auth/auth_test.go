package auth

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (stubScreen) Title() string                             { return "stub" }

func newTestAuth(t *testing.T) (*AuthScreen, *account.State) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	state := account.New(st.CredentialRepo())
	client := api.New("http://127.0.0.1:1", 0, state, nil)
	return New(client, state, func() screen.Screen { return stubScreen{} }), state
}

func TestSubmitWithEmptyFieldsIsBlocked(t *testing.T) {
	s, _ := newTestAuth(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required.", s.notice)
	assert.True(t, s.isErr)
}

func TestToggleSwitchesModes(t *testing.T) {
	s, _ := newTestAuth(t)
	assert.Equal(t, "Welcome Back", s.Title())

	s.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	assert.Equal(t, modeRegister, s.mode)
	assert.Equal(t, "Create Your Account", s.Title())

	s.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	assert.Equal(t, modeLogin, s.mode)
}

func TestLoginSuccessPersistsTokenAndResolvesProfile(t *testing.T) {
	s, state := newTestAuth(t)

	_, cmd := s.Update(loginDoneMsg{Token: "tok-9"})
	require.NotNil(t, cmd)
	assert.Equal(t, "tok-9", state.Token())
}

func TestProfileResolutionReplacesScreen(t *testing.T) {
	s, state := newTestAuth(t)
	state.SetSession(context.Background(), "tok", nil)

	user := &api.User{ID: 1, Name: "Alice"}
	_, cmd := s.Update(meDoneMsg{User: user})
	require.NotNil(t, cmd)
	assert.Equal(t, user, state.User())

	msg := cmd()
	_, ok := msg.(router.ReplaceScreenMsg)
	assert.True(t, ok, "expected screen replacement, got %T", msg)
}

func TestFailedProfileResolutionDiscardsToken(t *testing.T) {
	s, state := newTestAuth(t)
	state.SetSession(context.Background(), "tok", nil)

	s.Update(meDoneMsg{Err: api.ErrUnauthorized})
	assert.Empty(t, state.Token())
	assert.NotEmpty(t, s.notice)
}

func TestRegistrationSuccessReturnsToLogin(t *testing.T) {
	s, _ := newTestAuth(t)
	s.toggleMode()
	require.Equal(t, modeRegister, s.mode)

	s.Update(registerDoneMsg{})
	assert.Equal(t, modeLogin, s.mode)
	assert.Equal(t, "Registration successful! Please log in.", s.notice)
	assert.False(t, s.isErr)
}

func TestRegisterErrorShowsServerDetail(t *testing.T) {
	s, _ := newTestAuth(t)
	s.toggleMode()

	s.Update(registerDoneMsg{Err: &api.APIError{Status: 400, Detail: "Email already registered"}})
	assert.Equal(t, "Email already registered", s.notice)
	assert.True(t, s.isErr)
	assert.Equal(t, modeRegister, s.mode)
}
