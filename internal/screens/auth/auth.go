package auth

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/layout"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

// educationLevels is the fixed list offered at registration.
var educationLevels = []string{"High School", "Undergraduate", "Graduate", "Professional"}

// mode selects between the login and register forms.
type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// field indexes into the active form's focusable inputs.
type field int

const (
	fieldName field = iota
	fieldEmail
	fieldPassword
	fieldEducation
)

// loginDoneMsg is sent when the credential exchange resolves.
type loginDoneMsg struct {
	Token string
	Err   error
}

// meDoneMsg is sent when the post-login profile resolution resolves.
type meDoneMsg struct {
	User *api.User
	Err  error
}

// registerDoneMsg is sent when account creation resolves.
type registerDoneMsg struct {
	Err error
}

// AuthScreen hosts the login and register forms.
type AuthScreen struct {
	client *api.Client
	state  *account.State

	// profileFactory builds the screen shown after a successful login.
	profileFactory func() screen.Screen

	mode      mode
	focus     field
	name      components.TextInput
	email     components.TextInput
	password  components.TextInput
	education int

	busy   bool
	notice string
	isErr  bool
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

// New creates the auth screen in login mode.
func New(client *api.Client, state *account.State, profileFactory func() screen.Screen) *AuthScreen {
	s := &AuthScreen{
		client:         client,
		state:          state,
		profileFactory: profileFactory,
		mode:           modeLogin,
		focus:          fieldEmail,
		name:           components.NewTextInput("Full Name", false, 60),
		email:          components.NewTextInput("Email Address", false, 120),
		password:       components.NewTextInput("Password", false, 120),
	}
	s.password.Model.EchoMode = textinput.EchoPassword
	return s
}

func (s *AuthScreen) Init() tea.Cmd {
	return s.email.Init()
}

func (s *AuthScreen) Title() string {
	if s.mode == modeLogin {
		return "Welcome Back"
	}
	return "Create Your Account"
}

func (s *AuthScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+T", Description: "Toggle login/register"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if msg.Err != nil {
			s.busy = false
			s.fail(msg.Err)
			return s, nil
		}
		// Record the credential, then resolve it to a profile.
		s.state.SetSession(context.Background(), msg.Token, nil)
		return s, func() tea.Msg {
			user, err := s.client.Me(context.Background())
			return meDoneMsg{User: user, Err: err}
		}

	case meDoneMsg:
		s.busy = false
		if msg.Err != nil {
			// The fresh token failed resolution; treat it as invalid.
			s.state.Clear(context.Background())
			s.fail(msg.Err)
			return s, nil
		}
		s.state.SetUser(msg.User)
		profile := s.profileFactory()
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: profile}
		}

	case registerDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.fail(msg.Err)
			return s, nil
		}
		s.mode = modeLogin
		s.focus = fieldEmail
		s.password = components.NewTextInput("Password", false, 120)
		s.password.Model.EchoMode = textinput.EchoPassword
		s.notice = "Registration successful! Please log in."
		s.isErr = false
		return s, s.email.Init()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToFocused(msg)
}

func (s *AuthScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		s.moveFocus(1)
		return s, s.focusCmd()
	case "shift+tab", "up":
		s.moveFocus(-1)
		return s, s.focusCmd()
	case "ctrl+t":
		s.toggleMode()
		return s, s.focusCmd()
	case "left", "right":
		if s.mode == modeRegister && s.focus == fieldEducation {
			s.cycleEducation(msg.String() == "right")
			return s, nil
		}
	case "enter":
		return s, s.submit()
	}

	return s.forwardToFocused(msg)
}

func (s *AuthScreen) forwardToFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldEmail:
		s.email, cmd = s.email.Update(msg)
	case fieldPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

// fields returns the focus order for the active mode.
func (s *AuthScreen) fields() []field {
	if s.mode == modeLogin {
		return []field{fieldEmail, fieldPassword}
	}
	return []field{fieldName, fieldEmail, fieldPassword, fieldEducation}
}

func (s *AuthScreen) moveFocus(delta int) {
	order := s.fields()
	idx := 0
	for i, f := range order {
		if f == s.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	s.focus = order[idx]
}

func (s *AuthScreen) focusCmd() tea.Cmd {
	switch s.focus {
	case fieldName:
		return s.name.Init()
	case fieldEmail:
		return s.email.Init()
	case fieldPassword:
		return s.password.Init()
	}
	return nil
}

func (s *AuthScreen) toggleMode() {
	if s.mode == modeLogin {
		s.mode = modeRegister
		s.focus = fieldName
	} else {
		s.mode = modeLogin
		s.focus = fieldEmail
	}
	s.notice = ""
	s.isErr = false
}

func (s *AuthScreen) cycleEducation(forward bool) {
	if forward {
		s.education = (s.education + 1) % len(educationLevels)
	} else {
		s.education = (s.education + len(educationLevels) - 1) % len(educationLevels)
	}
}

// submit validates locally and issues the login or register request.
// Missing required fields are blocked here and never reach the server.
func (s *AuthScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if s.mode == modeLogin {
		if email == "" || password == "" {
			s.notice = "Email and password are required."
			s.isErr = true
			return nil
		}
		s.busy = true
		s.notice = ""
		return func() tea.Msg {
			token, err := s.client.Login(context.Background(), email, password)
			return loginDoneMsg{Token: token, Err: err}
		}
	}

	name := strings.TrimSpace(s.name.Value())
	if name == "" || email == "" || password == "" {
		s.notice = "All fields are required."
		s.isErr = true
		return nil
	}
	in := api.RegisterInput{
		Name:           name,
		Email:          email,
		Password:       password,
		EducationLevel: educationLevels[s.education],
	}
	s.busy = true
	s.notice = ""
	return func() tea.Msg {
		return registerDoneMsg{Err: s.client.Register(context.Background(), in)}
	}
}

func (s *AuthScreen) fail(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		s.notice = apiErr.Detail
	} else if api.IsAuthFailure(err) {
		s.notice = "Invalid email or password."
	} else {
		s.notice = "An error occurred."
	}
	s.isErr = true
}

func (s *AuthScreen) View(width, height int) string {
	var b strings.Builder

	label := func(text string, f field) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.focus == f {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		return style.Render(text)
	}

	if s.mode == modeRegister {
		b.WriteString(label("Full Name", fieldName))
		b.WriteString("\n")
		b.WriteString(s.name.View())
		b.WriteString("\n\n")
	}

	b.WriteString(label("Email Address", fieldEmail))
	b.WriteString("\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")

	b.WriteString(label("Password", fieldPassword))
	b.WriteString("\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")

	if s.mode == modeRegister {
		b.WriteString(label("Education Level", fieldEducation))
		b.WriteString("\n")
		level := lipgloss.NewStyle().Foreground(theme.Text).Render("< " + educationLevels[s.education] + " >")
		b.WriteString(level)
		b.WriteString("\n\n")
	}

	if s.busy {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Working..."))
		b.WriteString("\n")
	} else if s.notice != "" {
		color := theme.Success
		if s.isErr {
			color = theme.Error
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(s.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	toggle := "Don't have an account? Press Ctrl+T to register."
	if s.mode == modeRegister {
		toggle = "Already have an account? Press Ctrl+T to log in."
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(toggle))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Width(min(width-8, 56)).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
