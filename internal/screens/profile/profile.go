package profile

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/layout"
	"go.uber.org/zap"
)

// mode selects which pane of the dashboard is active.
type mode int

const (
	modeMenu mode = iota
	modeDifficulty
	modeEdit
)

// editField indexes the profile edit form.
type editField int

const (
	editName editField = iota
	editPassword
	editConfirm
)

// difficultyChoices pairs launcher labels with the request values they send.
var difficultyChoices = []struct {
	Label string
	Value int
}{
	{"Adaptive (recommended)", 0},
	{"Easy", 1},
	{"Medium", 2},
	{"Hard", 3},
	{"Expert", 4},
}

type recentMsg struct {
	Records []store.AnswerRecord
	Err     error
}

type refreshedMsg struct {
	User *api.User
	Err  error
}

type shareDoneMsg struct {
	URL string
	Err error
}

type updateDoneMsg struct {
	User *api.User
	Err  error
}

// ProfileScreen is the authenticated dashboard: progress, fingerprint,
// session launcher, profile editing, report sharing, and logout.
type ProfileScreen struct {
	client  *api.Client
	state   *account.State
	reports *store.ReportRepo
	answers *store.AnswerRepo
	log     *zap.SugaredLogger

	quizFactory func(difficulty int) screen.Screen
	homeFactory func() screen.Screen

	mode       mode
	menu       components.Menu
	menuLabels []string

	diffCursor int

	editFocus    editField
	nameInput    components.TextInput
	passInput    components.TextInput
	confirmInput components.TextInput
	saving       bool

	recent   []store.AnswerRecord
	report   *api.Report
	shareURL string

	notice string
	isErr  bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)
var _ screen.EscConsumer = (*ProfileScreen)(nil)

// ConsumesEsc is true while a sub-pane is open; escape then returns to
// the dashboard menu instead of popping the screen.
func (s *ProfileScreen) ConsumesEsc() bool { return s.mode != modeMenu }

// New creates the dashboard screen for the signed-in user.
func New(client *api.Client, state *account.State, reports *store.ReportRepo, answers *store.AnswerRepo, log *zap.SugaredLogger, quizFactory func(difficulty int) screen.Screen, homeFactory func() screen.Screen) *ProfileScreen {
	s := &ProfileScreen{
		client:      client,
		state:       state,
		reports:     reports,
		answers:     answers,
		log:         log,
		quizFactory: quizFactory,
		homeFactory: homeFactory,
	}

	s.menuLabels = []string{
		"START SESSION",
		"EDIT PROFILE",
		"SHARE LATEST REPORT",
		"LOG OUT",
	}
	items := []components.MenuItem{
		{Label: s.menuLabels[0], Action: func() tea.Cmd {
			s.mode = modeDifficulty
			s.diffCursor = 0
			s.notice = ""
			return nil
		}},
		{Label: s.menuLabels[1], Action: func() tea.Cmd {
			s.enterEdit()
			return s.nameInput.Init()
		}},
		{Label: s.menuLabels[2], Action: s.shareReport},
		{Label: s.menuLabels[3], Action: s.logout},
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *ProfileScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.loadRecent(), s.refreshProfile()}
	if s.reports != nil {
		if rep, err := s.reports.Latest(context.Background()); err == nil {
			s.report = rep
		}
	}
	return tea.Batch(cmds...)
}

func (s *ProfileScreen) Title() string {
	return "Dashboard"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeDifficulty:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Choose"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeEdit:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *ProfileScreen) loadRecent() tea.Cmd {
	if s.answers == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := s.answers.Recent(context.Background(), 5)
		return recentMsg{Records: records, Err: err}
	}
}

func (s *ProfileScreen) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		user, err := s.client.Me(context.Background())
		return refreshedMsg{User: user, Err: err}
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recentMsg:
		if msg.Err == nil {
			s.recent = msg.Records
		} else if s.log != nil {
			s.log.Warnw("recent activity load failed", "error", msg.Err)
		}
		return s, nil

	case refreshedMsg:
		if msg.Err != nil {
			if api.IsAuthFailure(msg.Err) {
				return s, s.forceLogout()
			}
			return s, nil
		}
		s.state.SetUser(msg.User)
		return s, nil

	case shareDoneMsg:
		if msg.Err != nil {
			if api.IsAuthFailure(msg.Err) {
				return s, s.forceLogout()
			}
			s.setError(msg.Err, "Could not share the report.")
			return s, nil
		}
		s.shareURL = s.client.ResolveURL(msg.URL)
		s.notice = "Report shared. Anyone with the link can view it."
		s.isErr = false
		return s, nil

	case updateDoneMsg:
		s.saving = false
		if msg.Err != nil {
			if api.IsAuthFailure(msg.Err) {
				return s, s.forceLogout()
			}
			s.setError(msg.Err, "Could not update the profile.")
			return s, nil
		}
		s.state.SetUser(msg.User)
		s.mode = modeMenu
		s.notice = "Profile updated."
		s.isErr = false
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeEdit {
		return s.forwardToEdit(msg)
	}
	return s, nil
}

func (s *ProfileScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeDifficulty:
		switch msg.String() {
		case "esc":
			s.mode = modeMenu
			return s, nil
		case "up", "k":
			if s.diffCursor > 0 {
				s.diffCursor--
			}
			return s, nil
		case "down", "j":
			if s.diffCursor < len(difficultyChoices)-1 {
				s.diffCursor++
			}
			return s, nil
		case "enter":
			choice := difficultyChoices[s.diffCursor]
			s.mode = modeMenu
			// Replace rather than push: the session ends by swapping in
			// a fresh dashboard, so this instance is never revealed
			// again with stale data.
			quizScreen := s.quizFactory(choice.Value)
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: quizScreen}
			}
		}
		return s, nil

	case modeEdit:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			s.mode = modeMenu
			s.notice = ""
			return s, nil
		case "tab", "down":
			s.editFocus = (s.editFocus + 1) % 3
			return s, s.editFocusCmd()
		case "shift+tab", "up":
			s.editFocus = (s.editFocus + 2) % 3
			return s, s.editFocusCmd()
		case "enter":
			return s, s.saveProfile()
		}
		return s.forwardToEdit(msg)

	default:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
}

func (s *ProfileScreen) forwardToEdit(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.editFocus {
	case editName:
		s.nameInput, cmd = s.nameInput.Update(msg)
	case editPassword:
		s.passInput, cmd = s.passInput.Update(msg)
	case editConfirm:
		s.confirmInput, cmd = s.confirmInput.Update(msg)
	}
	return s, cmd
}

func (s *ProfileScreen) editFocusCmd() tea.Cmd {
	switch s.editFocus {
	case editName:
		return s.nameInput.Init()
	case editPassword:
		return s.passInput.Init()
	case editConfirm:
		return s.confirmInput.Init()
	}
	return nil
}

func (s *ProfileScreen) enterEdit() {
	s.mode = modeEdit
	s.editFocus = editName
	s.notice = ""
	s.nameInput = components.NewTextInput("Full Name", false, 60)
	if user := s.state.User(); user != nil {
		s.nameInput.Model.SetValue(user.Name)
	}
	s.passInput = components.NewTextInput("New Password (leave blank to keep)", false, 120)
	s.passInput.Model.EchoMode = textinput.EchoPassword
	s.confirmInput = components.NewTextInput("Confirm New Password", false, 120)
	s.confirmInput.Model.EchoMode = textinput.EchoPassword
}

// saveProfile sends only the fields that changed. A blank form is a
// local no-op and nothing is sent.
func (s *ProfileScreen) saveProfile() tea.Cmd {
	user := s.state.User()
	if user == nil {
		return s.forceLogout()
	}

	var update api.ProfileUpdate
	name := strings.TrimSpace(s.nameInput.Value())
	if name != "" && name != user.Name {
		update.Name = &name
	}
	password := s.passInput.Value()
	if password != "" {
		if password != s.confirmInput.Value() {
			s.notice = "Passwords do not match."
			s.isErr = true
			return nil
		}
		update.Password = &password
	}
	if update.Empty() {
		s.notice = "No changes to save."
		s.isErr = true
		return nil
	}

	s.saving = true
	s.notice = ""
	return func() tea.Msg {
		updated, err := s.client.UpdateMe(context.Background(), update)
		return updateDoneMsg{User: updated, Err: err}
	}
}

// shareReport publishes the cached report. Without one there is nothing
// to share and no request is made.
func (s *ProfileScreen) shareReport() tea.Cmd {
	if s.report == nil {
		s.notice = "Complete a session first to generate a report."
		s.isErr = true
		return nil
	}
	s.notice = ""
	return func() tea.Msg {
		url, err := s.client.ShareReport(context.Background())
		return shareDoneMsg{URL: url, Err: err}
	}
}

func (s *ProfileScreen) logout() tea.Cmd {
	s.state.Clear(context.Background())
	home := s.homeFactory()
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: home}
	}
}

func (s *ProfileScreen) forceLogout() tea.Cmd {
	s.state.Clear(context.Background())
	home := s.homeFactory()
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: home}
	}
}

func (s *ProfileScreen) setError(err error, fallback string) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		s.notice = apiErr.Detail
	} else {
		s.notice = fallback
	}
	s.isErr = true
}
