package quiz

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	qz "github.com/ajaykumartn/cognipath-ai-2/internal/quiz"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
)

type stubScreen struct{ name string }

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (s stubScreen) Title() string                           { return s.name }

func newTestScreen(t *testing.T) (*QuizScreen, *account.State) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	state := account.New(st.CredentialRepo())
	state.SetSession(context.Background(), "tok", &api.User{ID: 1, Name: "Alice"})

	client := api.New("http://127.0.0.1:1", 0, state, nil)
	home := func() screen.Screen { return stubScreen{name: "home"} }
	profile := func() screen.Screen { return stubScreen{name: "profile"} }
	return New(0, client, state, st.ReportRepo(), st.AnswerRepo(), nil, home, profile), state
}

func press(t *testing.T, s screen.Screen, key string) (screen.Screen, tea.Cmd) {
	t.Helper()
	updated, cmd := s.Update(tea.KeyPressMsg{Code: rune(key[0]), Text: key})
	return updated, cmd
}

func testQuestion() *api.Question {
	return &api.Question{
		ID:              "q1",
		Text:            "What is 2+2?",
		Options:         map[string]string{"a": "3", "b": "4", "c": "5"},
		CorrectAnswer:   "b",
		DifficultyLevel: 2,
	}
}

func beginQuestion(t *testing.T, s *QuizScreen) {
	t.Helper()
	updated, _ := s.Update(firstQuestionMsg{Question: testQuestion()})
	require.Same(t, s, updated)
	require.Equal(t, qz.PhaseAwaitingAnswer, s.session.Phase)
}

func TestSubmitWithoutSelectionIsSilentNoOp(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, qz.PhaseAwaitingAnswer, s.session.Phase)
	assert.Empty(t, s.errMsg)
}

func TestSelectAndSubmitEntersSubmitting(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)

	press(t, s, "b")
	assert.Equal(t, "b", s.session.Selected)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, qz.PhaseSubmitting, s.session.Phase)
	assert.Equal(t, "b", s.lastSub.UserAnswer)
	assert.Equal(t, "b", s.lastSub.CorrectAnswer)
	assert.Equal(t, 2, s.lastSub.DifficultyLevel)
}

func TestSelectingAbsentOptionIsIgnored(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)

	press(t, s, "e")
	assert.Empty(t, s.session.Selected)
}

func gradedResult(next *api.Question) *api.SubmitResult {
	return &api.SubmitResult{
		IsCorrect:    true,
		Feedback:     "Good.",
		Report:       &api.Report{FingerprintChartURL: "/fp.png"},
		NextQuestion: next,
	}
}

func submitThrough(t *testing.T, s *QuizScreen) {
	t.Helper()
	press(t, s, "b")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
}

func TestGradedResultShowsFeedbackAndLogsAnswer(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)

	next := testQuestion()
	next.ID = "q2"
	_, cmd := s.Update(submitDoneMsg{Result: gradedResult(next)})
	require.NotNil(t, cmd)
	assert.Equal(t, qz.PhaseShowingFeedback, s.session.Phase)
	assert.Equal(t, 1, s.session.CorrectCount)

	recent, err := s.answers.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "What is 2+2?", recent[0].QuestionText)
	assert.True(t, recent[0].Correct)

	rep, err := s.reports.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, "/fp.png", rep.FingerprintChartURL)
}

func TestAnswerLogFailureDoesNotBlockFeedback(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)

	state := account.New(st.CredentialRepo())
	state.SetSession(context.Background(), "tok", &api.User{ID: 1, Name: "Alice"})
	client := api.New("http://127.0.0.1:1", 0, state, nil)
	home := func() screen.Screen { return stubScreen{name: "home"} }
	profile := func() screen.Screen { return stubScreen{name: "profile"} }
	s := New(0, client, state, st.ReportRepo(), st.AnswerRepo(), nil, home, profile)

	beginQuestion(t, s)
	submitThrough(t, s)

	// Persistence failing must not keep the graded result from the user.
	require.NoError(t, st.Close())
	_, cmd := s.Update(submitDoneMsg{Result: gradedResult(testQuestion())})
	require.NotNil(t, cmd)
	assert.Equal(t, qz.PhaseShowingFeedback, s.session.Phase)
}

func TestStaleFeedbackTimerIsIgnored(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)
	s.Update(submitDoneMsg{Result: gradedResult(testQuestion())})

	s.Update(feedbackElapsedMsg{Seq: s.feedbackSeq - 1})
	assert.Equal(t, qz.PhaseShowingFeedback, s.session.Phase)

	s.Update(feedbackElapsedMsg{Seq: s.feedbackSeq})
	assert.Equal(t, qz.PhaseAwaitingAnswer, s.session.Phase)
}

func TestFeedbackTimerAfterTerminationIsDiscarded(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)
	s.Update(submitDoneMsg{Result: gradedResult(testQuestion())})
	seq := s.feedbackSeq

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.True(t, s.session.Ended())

	s.Update(feedbackElapsedMsg{Seq: seq})
	assert.True(t, s.session.Ended())
	assert.Nil(t, s.session.Current)
}

func TestEndOfSessionMarkerEndsAfterFeedback(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)

	marker := &api.Question{Err: "Could not retrieve any valid question."}
	s.Update(submitDoneMsg{Result: gradedResult(marker)})
	assert.Equal(t, qz.PhaseShowingFeedback, s.session.Phase)

	_, cmd := s.Update(feedbackElapsedMsg{Seq: s.feedbackSeq})
	require.NotNil(t, cmd)
	assert.True(t, s.session.Ended())
	assert.Equal(t, "Could not retrieve any valid question.", s.session.EndReason)
}

func TestTransportFailureKeepsQuestionLive(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)

	s.Update(submitDoneMsg{Err: &api.APIError{Status: 500, Detail: "boom"}})
	assert.Equal(t, qz.PhaseAwaitingAnswer, s.session.Phase)
	assert.Equal(t, "b", s.session.Selected)
	assert.NotEmpty(t, s.errMsg)
}

func TestAuthFailureDuringSubmitForcesLogout(t *testing.T) {
	s, state := newTestScreen(t)
	beginQuestion(t, s)
	submitThrough(t, s)

	_, cmd := s.Update(submitDoneMsg{Err: api.ErrUnauthorized})
	require.NotNil(t, cmd)
	assert.True(t, s.session.Ended())
	assert.Empty(t, state.Token())
	assert.Nil(t, state.User())

	msg := cmd()
	_, ok := msg.(router.ResetScreenMsg)
	assert.True(t, ok, "expected a full navigation reset, got %T", msg)
}

func TestAuthFailureOnEndRefreshForcesLogout(t *testing.T) {
	s, state := newTestScreen(t)
	beginQuestion(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	require.True(t, s.session.Ended())

	// The end-of-session profile refresh came back 401; the credential
	// must be discarded like any other auth failure.
	_, cmd = s.Update(profileRefreshedMsg{Err: api.ErrUnauthorized})
	require.NotNil(t, cmd)
	assert.Empty(t, state.Token())
	assert.Nil(t, state.User())

	msg := cmd()
	reset, ok := msg.(router.ResetScreenMsg)
	require.True(t, ok, "expected a full navigation reset, got %T", msg)
	assert.Equal(t, "home", reset.Screen.Title())
}

func TestSessionEndSwapsInFreshDashboard(t *testing.T) {
	s, state := newTestScreen(t)
	beginQuestion(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.True(t, s.session.Ended())

	refreshed := &api.User{ID: 1, Name: "Alice", Progress: &api.Progress{QuestionsAnswered: 7}}
	_, cmd := s.Update(profileRefreshedMsg{User: refreshed})
	require.NotNil(t, cmd)
	assert.Equal(t, refreshed, state.User())

	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected a screen replacement, got %T", msg)
	assert.Equal(t, "profile", replace.Screen.Title())
}

func TestEmptyIssueReportIsBlockedLocally(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)

	press(t, s, "r")
	require.True(t, s.showReportModal)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, s.showReportModal)
}

func TestHintRequestedOncePerQuestion(t *testing.T) {
	s, _ := newTestScreen(t)
	beginQuestion(t, s)

	_, cmd := press(t, s, "h")
	require.NotNil(t, cmd)
	require.True(t, s.hintPending)

	_, cmd = press(t, s, "h")
	assert.Nil(t, cmd)

	s.Update(hintMsg{Err: assert.AnError})
	assert.Equal(t, "Could not get a hint.", s.hint)
	assert.True(t, s.hintShown)

	_, cmd = press(t, s, "h")
	assert.Nil(t, cmd)
}
