package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	qz "github.com/ajaykumartn/cognipath-ai-2/internal/quiz"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/layout"
)

const (
	hintFallback     = "Could not get a hint."
	issueReportOK    = "Issue reported successfully. Thank you for your feedback!"
	issueReportError = "Failed to report issue."
)

// QuizScreen drives one quiz session against the adaptive service.
type QuizScreen struct {
	session *qz.Session
	client  *api.Client
	state   *account.State
	reports *store.ReportRepo
	answers *store.AnswerRepo
	log     *zap.SugaredLogger

	// homeFactory builds the screen to land on after a forced
	// de-authentication; profileFactory builds the dashboard shown when
	// the session ends normally.
	homeFactory    func() screen.Screen
	profileFactory func() screen.Screen

	options components.OptionList

	hint        string
	hintShown   bool
	hintPending bool

	showReportModal bool
	reportInput     components.TextInput
	reportNotice    string

	errMsg      string
	feedbackSeq int
	ending      bool

	// lastSub is the in-flight grading payload, kept for the answer log.
	lastSub api.Submission
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscConsumer = (*QuizScreen)(nil)

// ConsumesEsc is always true: escape either dismisses the issue modal or
// ends the session through the teardown path, never a bare pop.
func (s *QuizScreen) ConsumesEsc() bool { return true }

// New creates a quiz screen. difficulty 0 requests adaptive selection.
func New(difficulty int, client *api.Client, state *account.State, reports *store.ReportRepo, answers *store.AnswerRepo, log *zap.SugaredLogger, homeFactory, profileFactory func() screen.Screen) *QuizScreen {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &QuizScreen{
		session:        qz.NewSession(difficulty),
		client:         client,
		state:          state,
		reports:        reports,
		answers:        answers,
		log:            log,
		homeFactory:    homeFactory,
		profileFactory: profileFactory,
		reportInput:    components.NewTextInput("e.g., The answer is incorrect, there's a typo...", false, 120),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.fetchFirstQuestion()
}

func (s *QuizScreen) Title() string {
	return "Quiz Session"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.showReportModal {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit report"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	switch s.session.Phase {
	case qz.PhaseAwaitingAnswer:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "H", Description: "Hint"},
			{Key: "R", Description: "Report issue"},
			{Key: "Esc", Description: "End session"},
		}
	case qz.PhaseShowingFeedback:
		return []layout.KeyHint{
			{Key: "Esc", Description: "End session"},
		}
	default:
		return nil
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case firstQuestionMsg:
		return s.handleFirstQuestion(msg)

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case feedbackElapsedMsg:
		return s.handleFeedbackElapsed(msg)

	case hintMsg:
		s.hintPending = false
		if msg.Err != nil {
			s.hint = hintFallback
		} else {
			s.hint = msg.Text
		}
		s.hintShown = true
		return s, nil

	case issueReportDoneMsg:
		if msg.Err != nil {
			s.reportNotice = issueReportError
			return s, nil
		}
		s.showReportModal = false
		s.reportInput = components.NewTextInput("e.g., The answer is incorrect, there's a typo...", false, 120)
		s.reportNotice = issueReportOK
		return s, nil

	case profileRefreshedMsg:
		// The refresh is still an authenticated call; a 401 here must
		// de-authenticate like any other.
		if api.IsAuthFailure(msg.Err) {
			return s, s.terminateForAuth()
		}
		if msg.Err == nil && msg.User != nil {
			s.state.SetUser(msg.User)
		}
		// A fresh dashboard re-reads the report snapshot and answer log
		// persisted during the session.
		profile := s.profileFactory()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: profile} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.showReportModal {
		var cmd tea.Cmd
		s.reportInput, cmd = s.reportInput.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *QuizScreen) handleFirstQuestion(msg firstQuestionMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if api.IsAuthFailure(msg.Err) {
			return s, s.terminateForAuth()
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.session.BeginQuestion(msg.Question)
	if s.session.Ended() {
		// The server had no question to serve at all.
		return s, s.endSession()
	}
	s.options = components.NewOptionList(msg.Question.Options)
	return s, nil
}

func (s *QuizScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if api.IsAuthFailure(msg.Err) {
			// Terminate immediately; no feedback delay.
			return s, s.terminateForAuth()
		}
		s.errMsg = msg.Err.Error()
		s.session.FailSubmit()
		return s, nil
	}

	s.errMsg = ""
	q := s.session.Current
	sub := s.lastSub
	s.session.ApplyResult(msg.Result)

	ctx := context.Background()
	if msg.Result.Report != nil {
		if err := s.reports.SaveLatest(ctx, msg.Result.Report); err != nil {
			s.log.Warnw("persist report snapshot", "err", err)
		}
	}
	if q != nil {
		err := s.answers.Append(ctx, store.AnswerRecord{
			SessionID:     s.session.ID,
			QuestionText:  q.Text,
			UserAnswer:    sub.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       msg.Result.IsCorrect,
			TimeMs:        int(sub.TimeTaken * 1000),
			Difficulty:    q.DifficultyLevel,
		})
		if err != nil {
			s.log.Warnw("persist answer log", "err", err)
		}
	}

	s.feedbackSeq++
	seq := s.feedbackSeq
	return s, tea.Tick(qz.FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackElapsedMsg{Seq: seq}
	})
}

func (s *QuizScreen) handleFeedbackElapsed(msg feedbackElapsedMsg) (screen.Screen, tea.Cmd) {
	// A stale timer from an earlier question, or one firing after the
	// session was torn down, must not mutate state.
	if msg.Seq != s.feedbackSeq || s.session.Ended() || s.ending {
		return s, nil
	}

	s.session.AdvanceAfterFeedback()
	if s.session.Ended() {
		return s, s.endSession()
	}

	s.options = components.NewOptionList(s.session.Current.Options)
	s.hint = ""
	s.hintShown = false
	s.reportNotice = ""
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showReportModal {
		switch key {
		case "esc":
			s.showReportModal = false
			s.reportNotice = ""
			return s, nil
		case "enter":
			return s, s.submitIssueReport()
		}
		var cmd tea.Cmd
		s.reportInput, cmd = s.reportInput.Update(msg)
		return s, cmd
	}

	if key == "esc" {
		if s.ending {
			return s, nil
		}
		s.session.Terminate()
		return s, s.endSession()
	}

	if s.session.Phase != qz.PhaseAwaitingAnswer {
		return s, nil
	}

	switch key {
	case "enter":
		return s, s.submitAnswer()
	case "up", "k":
		s.options = s.options.MoveUp()
		return s, nil
	case "down", "j":
		s.options = s.options.MoveDown()
		return s, nil
	case "h":
		return s, s.fetchHint()
	case "r":
		s.showReportModal = true
		s.reportNotice = ""
		return s, s.reportInput.Init()
	case "a", "b", "c", "d", "e":
		if updated, ok := s.options.SelectKey(key); ok {
			s.options = updated
			s.session.Select(key)
		}
		return s, nil
	case " ":
		if cursor := s.options.CursorKey(); cursor != "" {
			s.options = s.options.Select()
			s.session.Select(cursor)
		}
		return s, nil
	}

	return s, nil
}

// submitAnswer confirms the current selection. With no selection it is a
// silent no-op: no network call, no error.
func (s *QuizScreen) submitAnswer() tea.Cmd {
	sub, ok := s.session.StartSubmit()
	if !ok {
		return nil
	}
	s.errMsg = ""
	s.lastSub = sub
	return func() tea.Msg {
		res, err := s.client.Submit(context.Background(), sub)
		return submitDoneMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) fetchFirstQuestion() tea.Cmd {
	difficulty := s.session.RequestedDifficulty
	return func() tea.Msg {
		q, err := s.client.Start(context.Background(), difficulty)
		return firstQuestionMsg{Question: q, Err: err}
	}
}

// fetchHint requests a hint for the live question. It never blocks answer
// submission and never alters session state.
func (s *QuizScreen) fetchHint() tea.Cmd {
	if s.hintPending || s.hintShown || s.session.Current == nil {
		return nil
	}
	s.hintPending = true
	text := s.session.Current.Text
	return func() tea.Msg {
		hint, err := s.client.Hint(context.Background(), text)
		return hintMsg{Text: hint, Err: err}
	}
}

// submitIssueReport sends the modal's comment. An empty comment is blocked
// locally and never reaches the server.
func (s *QuizScreen) submitIssueReport() tea.Cmd {
	comment := s.reportInput.Value()
	if comment == "" || s.session.Current == nil {
		return nil
	}
	text := s.session.Current.Text
	return func() tea.Msg {
		err := s.client.ReportIssue(context.Background(), text, comment)
		return issueReportDoneMsg{Err: err}
	}
}

// endSession refreshes the cached profile so updated progress and
// fingerprint are visible, then returns control to the prior screen.
func (s *QuizScreen) endSession() tea.Cmd {
	if s.ending {
		return nil
	}
	s.ending = true
	return func() tea.Msg {
		user, err := s.client.Me(context.Background())
		return profileRefreshedMsg{User: user, Err: err}
	}
}

// terminateForAuth handles a 401 anywhere in the cycle: discard the
// credential and leave authenticated content immediately.
func (s *QuizScreen) terminateForAuth() tea.Cmd {
	s.session.Terminate()
	s.ending = true
	s.state.Clear(context.Background())
	home := s.homeFactory()
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: home}
	}
}
