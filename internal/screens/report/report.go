package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/screen"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/layout"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

// loadedMsg is sent when the public report fetch resolves.
type loadedMsg struct {
	Report *api.SharedReport
	Err    error
}

// ReportScreen shows a publicly shared report. It needs no session; the
// endpoint it reads from is unauthenticated.
type ReportScreen struct {
	client *api.Client

	id      string
	idInput components.TextInput
	asking  bool

	loading bool
	report  *api.SharedReport
	errMsg  string
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates the shared report viewer. With an empty id the screen
// prompts for one; otherwise it fetches immediately.
func New(client *api.Client, id string) *ReportScreen {
	id = strings.TrimSpace(id)
	return &ReportScreen{
		client:  client,
		id:      id,
		idInput: components.NewTextInput("Report ID", false, 80),
		asking:  id == "",
	}
}

func (s *ReportScreen) Init() tea.Cmd {
	if s.asking {
		return s.idInput.Init()
	}
	return s.fetch()
}

func (s *ReportScreen) Title() string {
	return "Shared Report"
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	if s.asking {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Open"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *ReportScreen) fetch() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	id := s.id
	return func() tea.Msg {
		rep, err := s.client.PublicReport(context.Background(), id)
		return loadedMsg{Report: rep, Err: err}
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = "Report not found or no longer available."
			s.asking = true
			return s, s.idInput.Init()
		}
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		if s.asking && msg.String() == "enter" {
			id := strings.TrimSpace(s.idInput.Value())
			if id == "" {
				return s, nil
			}
			s.id = id
			s.asking = false
			return s, s.fetch()
		}
	}

	if s.asking {
		var cmd tea.Cmd
		s.idInput, cmd = s.idInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	var content string
	switch {
	case s.asking:
		content = s.renderPrompt()
	case s.loading:
		content = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Loading report...")
	case s.report != nil:
		content = s.renderReport(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *ReportScreen) renderPrompt() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("Enter a shared report ID:"))
	b.WriteString("\n\n")
	b.WriteString(s.idInput.View())
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(b.String())
}

// chart URL keys get dedicated rows; anything else in report_data is
// shown as a plain key/value pair so unknown server additions still render.
func (s *ReportScreen) renderReport(width int) string {
	var b strings.Builder

	heading := fmt.Sprintf("Cognitive Report for %s", s.report.UserName)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Report ID: " + s.report.ID))
	b.WriteString("\n\n")

	linkStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true)
	if url, ok := s.report.ReportData["fingerprint_chart_url"].(string); ok && url != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("Cognitive Fingerprint: "))
		b.WriteString(linkStyle.Render(s.client.ResolveURL(url)))
		b.WriteString("\n")
	}
	if url, ok := s.report.ReportData["trajectory_chart_url"].(string); ok && url != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("Learning Trajectory:   "))
		b.WriteString(linkStyle.Render(s.client.ResolveURL(url)))
		b.WriteString("\n")
	}

	var extras []string
	for k := range s.report.ReportData {
		if k == "fingerprint_chart_url" || k == "trajectory_chart_url" {
			continue
		}
		extras = append(extras, k)
	}
	sort.Strings(extras)
	if len(extras) > 0 {
		b.WriteString("\n")
		dim := lipgloss.NewStyle().Foreground(theme.TextDim)
		for _, k := range extras {
			b.WriteString(dim.Render(fmt.Sprintf("%s: %v", k, s.report.ReportData[k])))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		MaxWidth(max(20, width-4)).
		Render(b.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
