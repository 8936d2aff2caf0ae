package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/account"
	"github.com/ajaykumartn/cognipath-ai-2/internal/router"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

const banner = `
   ____                  _ ____       _   _
  / ___|___   __ _ _ __ (_)  _ \ __ _| |_| |__
 | |   / _ \ / _` + "`" + ` | '_ \| | |_) / _` + "`" + ` | __| '_ \
 | |__| (_) | (_| | | | | |  __/ (_| | |_| | | |
  \____\___/ \__, |_| |_|_|_|   \__,_|\__|_| |_|
             |___/
`

var features = []string{
	"Adaptive questions that follow your pace",
	"A cognitive fingerprint of how you learn",
	"AI coaching feedback after every answer",
}

// HomeScreen is the public landing screen.
type HomeScreen struct {
	state      *account.State
	menu       components.Menu
	menuLabels []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the landing screen. The factories build the next screens
// so this package stays free of cycles with the screens they live in.
func New(state *account.State, authFactory, profileFactory, reportFactory func() screen.Screen) *HomeScreen {
	var labels []string
	var items []components.MenuItem

	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: factory()}
			}
		}
	}

	if state.Authenticated() {
		labels = []string{"MY DASHBOARD", "VIEW SHARED REPORT", "EXIT"}
		items = []components.MenuItem{
			{Label: labels[0], Action: push(profileFactory)},
			{Label: labels[1], Action: push(reportFactory)},
			{Label: labels[2], Action: func() tea.Cmd { return tea.Quit }},
		}
	} else {
		labels = []string{"LOG IN / REGISTER", "VIEW SHARED REPORT", "EXIT"}
		items = []components.MenuItem{
			{Label: labels[0], Action: push(authFactory)},
			{Label: labels[1], Action: push(reportFactory)},
			{Label: labels[2], Action: func() tea.Cmd { return tea.Quit }},
		}
	}

	return &HomeScreen{
		state:      state,
		menu:       components.NewMenu(items),
		menuLabels: labels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(strings.Trim(banner, "\n"))
	sections = append(sections, title)

	tagline := lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true).
		Render("Unlock Your Learning DNA")
	sections = append(sections, tagline)

	if user := h.state.User(); user != nil {
		welcome := lipgloss.NewStyle().Foreground(theme.Text).
			Render("Welcome back, " + user.Name + "!")
		sections = append(sections, welcome)
	} else {
		var fb strings.Builder
		dim := lipgloss.NewStyle().Foreground(theme.TextDim)
		for i, f := range features {
			if i > 0 {
				fb.WriteString("\n")
			}
			fb.WriteString(dim.Render("• " + f))
		}
		sections = append(sections, fb.String())
	}

	menuBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 4).
		Render(h.renderMenu())
	sections = append(sections, menuBox)

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderMenu() string {
	var b strings.Builder
	for i, label := range h.menuLabels {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == h.menu.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("> " + label))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + label))
		}
	}
	return b.String()
}

func (h *HomeScreen) Title() string {
	return "CogniPath AI"
}
