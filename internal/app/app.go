package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screens/auth"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screens/home"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screens/profile"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screens/quiz"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screens/report"
	"github.com/ajaykumartn/cognipath-ai-2/internal/store"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/layout"
)

// Deps carries everything the screens need. cmd assembles it once and
// hands it over; nothing here is global.
type Deps struct {
	Client  *api.Client
	State   *account.State
	Reports *store.ReportRepo
	Answers *store.AnswerRepo
	Log     *zap.SugaredLogger

	// ReportID, when set, opens the shared report viewer directly.
	ReportID string
}

// factories builds every screen constructor up front so screens can
// navigate to each other without package cycles.
type factories struct {
	home    func() screen.Screen
	auth    func() screen.Screen
	profile func() screen.Screen
	quiz    func(difficulty int) screen.Screen
	report  func() screen.Screen
}

func buildFactories(deps Deps) *factories {
	f := &factories{}
	f.quiz = func(difficulty int) screen.Screen {
		return quiz.New(difficulty, deps.Client, deps.State, deps.Reports, deps.Answers, deps.Log, f.home, f.profile)
	}
	f.profile = func() screen.Screen {
		return profile.New(deps.Client, deps.State, deps.Reports, deps.Answers, deps.Log, f.quiz, f.home)
	}
	f.auth = func() screen.Screen {
		return auth.New(deps.Client, deps.State, f.profile)
	}
	f.report = func() screen.Screen {
		return report.New(deps.Client, "")
	}
	f.home = func() screen.Screen {
		return home.New(deps.State, f.auth, f.profile, f.report)
	}
	return f
}

// restoredMsg resolves the persisted credential against the server.
type restoredMsg struct {
	User *api.User
	Err  error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	deps      Deps
	factories *factories
	restoring bool
	width     int
	height    int
}

func newAppModel(deps Deps) AppModel {
	f := buildFactories(deps)

	if deps.ReportID != "" {
		return AppModel{
			router:    router.New(report.New(deps.Client, deps.ReportID)),
			deps:      deps,
			factories: f,
		}
	}

	restoring := deps.State.Restore(context.Background())
	return AppModel{
		router:    router.New(f.home()),
		deps:      deps,
		factories: f,
		restoring: restoring,
	}
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	if m.restoring {
		cmds = append(cmds, func() tea.Msg {
			user, err := m.deps.Client.Me(context.Background())
			return restoredMsg{User: user, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case restoredMsg:
		m.restoring = false
		if msg.Err != nil {
			// The stored credential is stale or the server is away.
			m.deps.State.Clear(context.Background())
			if m.deps.Log != nil {
				m.deps.Log.Infow("session restore failed", "error", msg.Err)
			}
			return m, nil
		}
		m.deps.State.SetUser(msg.User)
		reset := m.router.Reset(m.factories.home())
		push := m.router.Push(m.factories.profile())
		return m, tea.Sequence(reset, push)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ec, ok := m.router.Active().(screen.EscConsumer); ok && ec.ConsumesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userLine := ""
	if user := m.deps.State.User(); user != nil {
		userLine = user.Name
	}

	header := layout.RenderHeader(title, userLine, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
		footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
