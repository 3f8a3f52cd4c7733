package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/focus"
)

var (
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	atRiskStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	lostStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
	quizStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func stateStyle(s focus.State) lipgloss.Style {
	switch s {
	case focus.StateLost:
		return lostStyle
	case focus.StateAtRisk:
		return atRiskStyle
	default:
		return focusedStyle
	}
}

func renderStatus(s focus.Snapshot) string {
	badge := stateStyle(s.State).Render(fmt.Sprintf("%3d %s", s.Value, s.State))
	return badge + " " + labelStyle.Render(s.Message)
}

func renderEnded(s *domain.Session) string {
	score := "-"
	if s.FocusScore != nil {
		score = fmt.Sprintf("%d", *s.FocusScore)
	}
	return labelStyle.Render("session ended") + " " + s.ContentID + " score=" + score
}

func renderQuiz(q *domain.Quiz) string {
	var b strings.Builder
	b.WriteString("Quick check\n")
	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, question.Text)
		for j, opt := range question.Options {
			fmt.Fprintf(&b, "   %c) %s\n", 'a'+rune(j), opt.Text)
		}
	}
	return quizStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderProgress(p *domain.Progress) string {
	lines := []string{
		focusedStyle.Render(fmt.Sprintf("streak %d", p.FocusStreak)) + labelStyle.Render(fmt.Sprintf(" (best %d)", p.MaxStreak)),
		fmt.Sprintf("completed sessions: %d", p.CompletedSessions),
		labelStyle.Render("last active " + p.LastActive.Format("2006-01-02 15:04")),
	}
	skills := p.Skills.Data()
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s: %d xp", name, skills[name].XP))
	}
	return strings.Join(lines, "\n")
}
