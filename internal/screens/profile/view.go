package profile

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/components"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

const barWidth = 34

func (s *ProfileScreen) View(width, height int) string {
	user := s.state.User()
	if user == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Loading profile..."))
	}

	var content string
	switch s.mode {
	case modeDifficulty:
		content = s.renderDifficultyPicker()
	case modeEdit:
		content = s.renderEditForm()
	default:
		content = s.renderDashboard(user, width)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *ProfileScreen) renderDashboard(user *api.User, width int) string {
	var sections []string

	sections = append(sections, s.renderIdentity(user))
	sections = append(sections, s.renderProgress(user.Progress))
	// Server-rendered charts supersede the local bars once a report exists.
	if s.report != nil {
		sections = append(sections, s.renderReportLinks())
	} else {
		sections = append(sections, s.renderFingerprint(user.Fingerprint))
	}
	if len(s.recent) > 0 {
		sections = append(sections, s.renderRecent())
	}

	left := strings.Join(sections, "\n\n")

	menuBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 3).
		Render(s.menu.View())

	var footer []string
	if s.shareURL != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true).Render(s.shareURL))
	}
	if s.notice != "" {
		color := theme.Success
		if s.isErr {
			color = theme.Error
		}
		footer = append(footer, lipgloss.NewStyle().Foreground(color).Render(s.notice))
	}

	parts := []string{left, menuBox}
	if len(footer) > 0 {
		parts = append(parts, strings.Join(footer, "\n"))
	}

	if width >= 100 {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			left,
			strings.Repeat(" ", 4),
			menuBox)
		parts = []string{row}
		if len(footer) > 0 {
			parts = append(parts, strings.Join(footer, "\n"))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, interleave(parts)...)
}

// interleave inserts a blank line between stacked sections.
func interleave(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, p)
	}
	return out
}

func (s *ProfileScreen) renderIdentity(user *api.User) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(user.Name)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	return name + "\n" +
		dim.Render(user.Email) + "\n" +
		dim.Render(user.EducationLevel)
}

func (s *ProfileScreen) renderProgress(p *api.Progress) string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Progress")
	if p == nil {
		return heading + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("No sessions yet. Start one to begin.")
	}

	text := lipgloss.NewStyle().Foreground(theme.Text)
	lines := []string{
		heading,
		text.Render(fmt.Sprintf("Questions answered:  %d", p.QuestionsAnswered)),
		text.Render(fmt.Sprintf("Correct answers:     %d", p.CorrectAnswers)),
		text.Render(fmt.Sprintf("Accuracy:            %.0f%%", p.Accuracy()*100)),
		text.Render(fmt.Sprintf("Current difficulty:  %s", api.DifficultyLabel(p.CurrentDifficulty))),
		text.Render(fmt.Sprintf("Ability estimate:    %.2f", p.Ability)),
	}
	return strings.Join(lines, "\n")
}

func (s *ProfileScreen) renderFingerprint(fp *api.Fingerprint) string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Cognitive Fingerprint")
	if fp == nil {
		return heading + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Not enough data yet.")
	}

	bars := []components.ProgressBar{
		{Label: "Comprehension", Percent: fp.Comprehension, ShowPercent: true, Width: barWidth + 14, Color: theme.Comprehension},
		{Label: "Application  ", Percent: fp.Application, ShowPercent: true, Width: barWidth + 14, Color: theme.Application},
		{Label: "Concentration", Percent: fp.Concentration, ShowPercent: true, Width: barWidth + 14, Color: theme.Concentration},
		{Label: "Retention    ", Percent: fp.Retention, ShowPercent: true, Width: barWidth + 14, Color: theme.Retention},
	}

	lines := []string{heading}
	for _, b := range bars {
		lines = append(lines, b.View())
	}
	return strings.Join(lines, "\n")
}

func (s *ProfileScreen) renderReportLinks() string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Latest Report")
	link := lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true)
	text := lipgloss.NewStyle().Foreground(theme.Text)

	lines := []string{heading}
	if s.report.FingerprintChartURL != "" {
		lines = append(lines, text.Render("Fingerprint chart: ")+link.Render(s.client.ResolveURL(s.report.FingerprintChartURL)))
	}
	if s.report.TrajectoryChartURL != "" {
		lines = append(lines, text.Render("Trajectory chart:  ")+link.Render(s.client.ResolveURL(s.report.TrajectoryChartURL)))
	}
	return strings.Join(lines, "\n")
}

func (s *ProfileScreen) renderRecent() string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Recent Activity")
	lines := []string{heading}
	for _, rec := range s.recent {
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !rec.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
		q := rec.QuestionText
		if len(q) > 48 {
			q = q[:45] + "..."
		}
		line := fmt.Sprintf("%s %s  %s, %.1fs",
			mark,
			lipgloss.NewStyle().Foreground(theme.Text).Render(q),
			api.DifficultyLabel(rec.Difficulty),
			float64(rec.TimeMs)/1000)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *ProfileScreen) renderDifficultyPicker() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Choose a starting difficulty"))
	b.WriteString("\n\n")
	for i, choice := range difficultyChoices {
		if i == s.diffCursor {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("> " + choice.Label))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + choice.Label))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 3).
		Render(b.String())
}

func (s *ProfileScreen) renderEditForm() string {
	var b strings.Builder

	label := func(text string, f editField) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.editFocus == f {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		return style.Render(text)
	}

	b.WriteString(label("Full Name", editName))
	b.WriteString("\n")
	b.WriteString(s.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(label("New Password", editPassword))
	b.WriteString("\n")
	b.WriteString(s.passInput.View())
	b.WriteString("\n\n")
	b.WriteString(label("Confirm New Password", editConfirm))
	b.WriteString("\n")
	b.WriteString(s.confirmInput.View())

	if s.saving {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Saving..."))
	} else if s.notice != "" {
		color := theme.Success
		if s.isErr {
			color = theme.Error
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(s.notice))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(b.String())
}
