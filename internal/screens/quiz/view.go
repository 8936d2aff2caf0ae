package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/api"
	qz "github.com/ajaykumartn/cognipath-ai-2/internal/quiz"
	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.showReportModal {
		return s.renderReportModal(width, height)
	}

	switch s.session.Phase {
	case qz.PhaseInitializing:
		return centerDim(width, "\n\nLoading question...")
	case qz.PhaseEnded:
		return s.renderEnded(width)
	case qz.PhaseShowingFeedback:
		return s.renderFeedback(width)
	default:
		return s.renderQuestion(width)
	}
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.session.Current
	if q == nil {
		return centerDim(width, "\n\nLoading question...")
	}

	var b strings.Builder

	badge := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("  Difficulty Level: %d (%s)", q.DifficultyLevel, api.DifficultyLabel(q.DifficultyLevel)))
	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Answered %d  Correct %d", s.session.Answered, s.session.CorrectCount))

	infoLine := badge
	rightPad := width - lipgloss.Width(badge) - lipgloss.Width(counter) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + counter
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	b.WriteString("\n")

	if s.session.Phase == qz.PhaseSubmitting {
		b.WriteString(centerDim(width, "Evaluating..."))
		b.WriteString("\n")
	} else {
		b.WriteString(centerDim(width, "Select with A-D or arrows, Enter to submit"))
		b.WriteString("\n")
	}

	if s.hintShown {
		hintBox := lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(min(width-8, 70)).
			Render("Hint: " + s.hint)
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hintBox))
		b.WriteString("\n")
	}

	if s.reportNotice != "" {
		b.WriteString("\n")
		b.WriteString(centerDim(width, s.reportNotice))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	q := s.session.Current

	var b strings.Builder
	b.WriteString("\n")

	if s.session.LastCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
	}
	b.WriteString("\n\n")

	if q != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.ViewGraded(q.CorrectAnswer)))
		b.WriteString("\n")
	}

	if s.session.LastFeedback != "" {
		card := lipgloss.NewStyle().
			Foreground(theme.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(min(width-8, 70)).
			Render(fmt.Sprintf("AI Coach: %q", s.session.LastFeedback))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerDim(width, "Next question in a moment..."))

	return b.String()
}

func (s *QuizScreen) renderEnded(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete"))
	b.WriteString("\n\n")
	b.WriteString(centerDim(width, fmt.Sprintf("Answered %d, correct %d", s.session.Answered, s.session.CorrectCount)))
	if s.session.EndReason != "" {
		b.WriteString("\n\n")
		b.WriteString(centerDim(width, s.session.EndReason))
	}
	return b.String()
}

func (s *QuizScreen) renderReportModal(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Report an Issue"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("What's wrong with this question?"))
	b.WriteString("\n\n")
	b.WriteString(s.reportInput.View())
	if s.reportNotice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.reportNotice))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2).
		Width(min(width-8, 60)).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func centerDim(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
