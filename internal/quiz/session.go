// Package quiz implements the client-side quiz session state machine. It
// is pure state: the screen layer owns all network and timer commands and
// drives the machine through explicit transitions, which keeps every
// ordering rule testable without a terminal or a server.
package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
)

// FeedbackDelay is the fixed display period between a grading response
// and the next question becoming live.
const FeedbackDelay = 2500 * time.Millisecond

// Phase is the controller state.
type Phase int

const (
	// PhaseInitializing covers the initial /start request.
	PhaseInitializing Phase = iota
	// PhaseAwaitingAnswer has exactly one live question and no network
	// activity on the main path.
	PhaseAwaitingAnswer
	// PhaseSubmitting has a grading request in flight; submission is
	// disabled until it resolves.
	PhaseSubmitting
	// PhaseShowingFeedback displays the grading result for FeedbackDelay.
	PhaseShowingFeedback
	// PhaseEnded is terminal.
	PhaseEnded
)

// Session is the state of one quiz run. It is not safe for concurrent use;
// the TUI event loop is the only writer.
type Session struct {
	// ID identifies this run in the local answer log.
	ID string

	// RequestedDifficulty is the explicit starting level, 0 for adaptive.
	RequestedDifficulty int

	// Phase is the current controller state.
	Phase Phase

	// Current is the live question. At most one question is live; it is
	// invalidated by submission and replaced only after the feedback
	// delay elapses.
	Current *api.Question

	// Selected is the chosen option key, empty until a selection is made.
	// Selecting a new option replaces any prior selection.
	Selected string

	// QuestionStart is when Current became live, for time_taken.
	QuestionStart time.Time

	// Answered and CorrectCount track this run for the end-of-session
	// line and the answer log.
	Answered     int
	CorrectCount int

	// LastCorrect and LastFeedback hold the most recent grading result
	// for the feedback display.
	LastCorrect  bool
	LastFeedback string

	// LastReport is the report snapshot from the most recent grading
	// response, persisted by the screen layer.
	LastReport *api.Report

	// EndReason is the server's error marker text once the session ends,
	// empty for a user-initiated or auth-forced exit.
	EndReason string

	// pendingNext holds the next question between grading and the end of
	// the feedback delay. It is not live until AdvanceAfterFeedback.
	pendingNext *api.Question

	now func() time.Time
}

// NewSession creates a session in PhaseInitializing. difficulty 0 requests
// adaptive selection.
func NewSession(difficulty int) *Session {
	return &Session{
		ID:                  uuid.New().String(),
		RequestedDifficulty: difficulty,
		Phase:               PhaseInitializing,
		now:                 time.Now,
	}
}

// BeginQuestion makes q the live question. A question carrying the
// server's error marker ends the session instead.
func (s *Session) BeginQuestion(q *api.Question) {
	if s.Phase == PhaseEnded {
		return
	}
	if q.Exhausted() {
		s.end(q)
		return
	}
	s.Current = q
	s.Selected = ""
	s.Phase = PhaseAwaitingAnswer
	s.QuestionStart = s.now()
}

// Select records an option choice. Only present option keys are accepted,
// and only while awaiting an answer.
func (s *Session) Select(key string) bool {
	if s.Phase != PhaseAwaitingAnswer || s.Current == nil {
		return false
	}
	if _, ok := s.Current.Options[key]; !ok {
		return false
	}
	s.Selected = key
	return true
}

// StartSubmit transitions to PhaseSubmitting and returns the grading
// payload. With no selection, or outside PhaseAwaitingAnswer, it is a
// silent no-op and no payload is produced.
func (s *Session) StartSubmit() (api.Submission, bool) {
	if s.Phase != PhaseAwaitingAnswer || s.Current == nil || s.Selected == "" {
		return api.Submission{}, false
	}
	s.Phase = PhaseSubmitting
	return api.Submission{
		UserAnswer:      s.Selected,
		CorrectAnswer:   s.Current.CorrectAnswer,
		TimeTaken:       s.now().Sub(s.QuestionStart).Seconds(),
		DifficultyLevel: s.Current.DifficultyLevel,
	}, true
}

// FailSubmit returns to PhaseAwaitingAnswer after a non-auth grading
// failure. The question stays live and the selection is preserved.
func (s *Session) FailSubmit() {
	if s.Phase == PhaseSubmitting {
		s.Phase = PhaseAwaitingAnswer
	}
}

// ApplyResult records a grading response and enters PhaseShowingFeedback.
// The next question is held back until AdvanceAfterFeedback.
func (s *Session) ApplyResult(res *api.SubmitResult) {
	if s.Phase != PhaseSubmitting {
		return
	}
	s.Answered++
	if res.IsCorrect {
		s.CorrectCount++
	}
	s.LastCorrect = res.IsCorrect
	s.LastFeedback = res.Feedback
	if res.Report != nil {
		s.LastReport = res.Report
	}
	s.pendingNext = res.NextQuestion
	s.Phase = PhaseShowingFeedback
}

// AdvanceAfterFeedback moves to the next question once the feedback delay
// has elapsed, or ends the session when the server signaled exhaustion.
func (s *Session) AdvanceAfterFeedback() {
	if s.Phase != PhaseShowingFeedback {
		return
	}
	next := s.pendingNext
	s.pendingNext = nil
	if next.Exhausted() {
		s.end(next)
		return
	}
	s.BeginQuestion(next)
}

// Terminate ends the session immediately, bypassing any feedback delay.
// Used for auth failures and user-initiated exits.
func (s *Session) Terminate() {
	s.Current = nil
	s.pendingNext = nil
	s.Selected = ""
	s.Phase = PhaseEnded
}

// Ended reports whether the session reached its terminal state.
func (s *Session) Ended() bool {
	return s.Phase == PhaseEnded
}

// Live reports whether a question is currently displayed as answerable.
func (s *Session) Live() bool {
	return s.Current != nil && (s.Phase == PhaseAwaitingAnswer || s.Phase == PhaseSubmitting)
}

func (s *Session) end(q *api.Question) {
	if q != nil && q.Err != "" {
		s.EndReason = q.Err
	}
	s.Terminate()
}
