package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

func testQuestion(difficulty int) *api.Question {
	return &api.Question{
		ID:   "q1",
		Text: "What is 2+2?",
		Options: map[string]string{
			"a": "3",
			"b": "4",
			"c": "5",
		},
		CorrectAnswer:   "b",
		DifficultyLevel: difficulty,
	}
}

func activeSession(t *testing.T, difficulty int) *Session {
	t.Helper()
	s := NewSession(0)
	s.BeginQuestion(testQuestion(difficulty))
	require.Equal(t, PhaseAwaitingAnswer, s.Phase)
	return s
}

func TestNewSessionInitializing(t *testing.T) {
	s := NewSession(3)
	assert.Equal(t, PhaseInitializing, s.Phase)
	assert.Equal(t, 3, s.RequestedDifficulty)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Live())
}

func TestSelectReplacesPriorSelection(t *testing.T) {
	s := activeSession(t, 2)

	require.True(t, s.Select("a"))
	assert.Equal(t, "a", s.Selected)

	require.True(t, s.Select("b"))
	assert.Equal(t, "b", s.Selected)
}

func TestSelectRejectsAbsentOption(t *testing.T) {
	s := activeSession(t, 2)

	assert.False(t, s.Select("d"))
	assert.Empty(t, s.Selected)
}

func TestSubmitWithoutSelectionIsNoOp(t *testing.T) {
	s := activeSession(t, 2)

	_, ok := s.StartSubmit()
	assert.False(t, ok, "submission with no selection must not produce a payload")
	assert.Equal(t, PhaseAwaitingAnswer, s.Phase)
}

func TestSubmissionPayloadEchoesDifficulty(t *testing.T) {
	s := activeSession(t, 2)
	base := time.Now()
	s.QuestionStart = base.Add(-4200 * time.Millisecond)
	s.now = func() time.Time { return base }

	require.True(t, s.Select("b"))
	sub, ok := s.StartSubmit()
	require.True(t, ok)

	assert.Equal(t, "b", sub.UserAnswer)
	assert.Equal(t, "b", sub.CorrectAnswer)
	assert.Equal(t, 2, sub.DifficultyLevel, "grading is keyed on the echoed level")
	assert.InDelta(t, 4.2, sub.TimeTaken, 0.01)
}

func TestNoSecondSubmissionWhileInFlight(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("a"))

	_, ok := s.StartSubmit()
	require.True(t, ok)
	require.Equal(t, PhaseSubmitting, s.Phase)

	_, ok = s.StartSubmit()
	assert.False(t, ok, "a second submission cannot be issued before the first resolves")
}

func TestApplyResultHoldsNextQuestionUntilDelay(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("b"))
	_, ok := s.StartSubmit()
	require.True(t, ok)

	next := testQuestion(2)
	s.ApplyResult(&api.SubmitResult{
		IsCorrect:    true,
		Feedback:     "Nice work!",
		Report:       &api.Report{FingerprintChartURL: "/static/f.png"},
		NextQuestion: next,
	})

	assert.Equal(t, PhaseShowingFeedback, s.Phase)
	assert.True(t, s.LastCorrect)
	assert.Equal(t, "Nice work!", s.LastFeedback)
	assert.Equal(t, 1, s.Answered)
	assert.Equal(t, 1, s.CorrectCount)
	// The old question is still shown for feedback styling; the next one
	// is not live yet.
	assert.False(t, s.Live())
	assert.NotEqual(t, next, s.Current)

	s.AdvanceAfterFeedback()
	assert.Equal(t, PhaseAwaitingAnswer, s.Phase)
	assert.Equal(t, next, s.Current)
	assert.Empty(t, s.Selected, "selection must not carry over")
	assert.True(t, s.Live())
}

func TestErrorMarkerEndsSession(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("a"))
	_, ok := s.StartSubmit()
	require.True(t, ok)

	s.ApplyResult(&api.SubmitResult{
		IsCorrect:    false,
		Feedback:     "Keep trying!",
		NextQuestion: &api.Question{Err: "Could not retrieve any valid question."},
	})
	s.AdvanceAfterFeedback()

	assert.True(t, s.Ended())
	assert.Equal(t, "Could not retrieve any valid question.", s.EndReason)
	assert.Nil(t, s.Current, "no stale question content after the session ends")
}

func TestNilNextQuestionEndsSession(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("a"))
	_, ok := s.StartSubmit()
	require.True(t, ok)

	s.ApplyResult(&api.SubmitResult{NextQuestion: nil})
	s.AdvanceAfterFeedback()

	assert.True(t, s.Ended())
	assert.Empty(t, s.EndReason)
}

func TestFailSubmitKeepsQuestionLive(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("c"))
	_, ok := s.StartSubmit()
	require.True(t, ok)

	s.FailSubmit()

	assert.Equal(t, PhaseAwaitingAnswer, s.Phase)
	assert.Equal(t, "c", s.Selected, "selection survives a transport failure")
	assert.True(t, s.Live())
}

func TestTerminateBypassesFeedbackDelay(t *testing.T) {
	s := activeSession(t, 1)
	require.True(t, s.Select("a"))
	_, ok := s.StartSubmit()
	require.True(t, ok)
	s.ApplyResult(&api.SubmitResult{NextQuestion: testQuestion(2)})

	s.Terminate()

	assert.True(t, s.Ended())
	assert.Nil(t, s.Current)

	// Late transitions after termination are discarded.
	s.AdvanceAfterFeedback()
	assert.True(t, s.Ended())
	s.BeginQuestion(testQuestion(3))
	assert.True(t, s.Ended())
	assert.Nil(t, s.Current)
}

func TestBeginQuestionWithErrorMarker(t *testing.T) {
	s := NewSession(0)
	s.BeginQuestion(&api.Question{Err: "out of questions"})

	assert.True(t, s.Ended())
	assert.Equal(t, "out of questions", s.EndReason)
}
