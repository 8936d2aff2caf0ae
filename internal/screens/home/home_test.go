package home

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

type stubScreen struct{ name string }

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (s stubScreen) Title() string                           { return s.name }

func testState(t *testing.T) *account.State {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return account.New(st.CredentialRepo())
}

func factoriesFor() (func() screen.Screen, func() screen.Screen, func() screen.Screen) {
	authF := func() screen.Screen { return stubScreen{name: "auth"} }
	profileF := func() screen.Screen { return stubScreen{name: "profile"} }
	reportF := func() screen.Screen { return stubScreen{name: "report"} }
	return authF, profileF, reportF
}

func selectEntry(t *testing.T, h *HomeScreen) tea.Msg {
	t.Helper()
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestUnauthenticatedMenuLeadsToAuth(t *testing.T) {
	authF, profileF, reportF := factoriesFor()
	h := New(testState(t), authF, profileF, reportF)
	assert.Equal(t, "LOG IN / REGISTER", h.menuLabels[0])

	msg := selectEntry(t, h)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "expected a push, got %T", msg)
	assert.Equal(t, "auth", push.Screen.Title())
}

func TestAuthenticatedMenuLeadsToDashboard(t *testing.T) {
	state := testState(t)
	state.SetSession(context.Background(), "tok", &api.User{ID: 1, Name: "Alice"})

	authF, profileF, reportF := factoriesFor()
	h := New(state, authF, profileF, reportF)
	assert.Equal(t, "MY DASHBOARD", h.menuLabels[0])

	msg := selectEntry(t, h)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "expected a push, got %T", msg)
	assert.Equal(t, "profile", push.Screen.Title())
}

func TestSharedReportEntry(t *testing.T) {
	authF, profileF, reportF := factoriesFor()
	h := New(testState(t), authF, profileF, reportF)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	msg := selectEntry(t, h)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "expected a push, got %T", msg)
	assert.Equal(t, "report", push.Screen.Title())
}
