package bubbletea

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lingua"
	"github.com/mattn/go-runewidth"
)

var _ MessageBlock = (*ProgressBlock)(nil)

const streakBarWidth = 20

// ProgressBlock renders the progress dashboard: four counters and a bar
// showing the current streak against the longest one.
type ProgressBlock struct {
	user     lingua.User
	progress lingua.Progress
	styles   Styles
}

func NewProgressBlock(user lingua.User, p lingua.Progress, styles Styles) *ProgressBlock {
	return &ProgressBlock{user: user, progress: p, styles: styles}
}

func (b *ProgressBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) { return b, nil }

func (b *ProgressBlock) View(width int) string {
	p := b.progress
	title := "Your progress"
	if b.user.Email != "" {
		title += " · " + b.user.Email
	}

	rows := [][2]string{
		{"Lessons completed", fmt.Sprint(p.TotalLessons)},
		{"Words learned", fmt.Sprint(p.TotalWords)},
		{"Practice time", lingua.FormatPracticeTime(p.TotalTimeSeconds)},
		{"Current streak", days(p.CurrentStreak)},
	}
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r[0]))
	}

	var sb strings.Builder
	sb.WriteString(b.styles.Accent.Render(title))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(b.styles.Muted.Render(runewidth.FillRight(r[0], labelWidth)))
		sb.WriteString("  ")
		sb.WriteString(b.styles.Title.Render(r[1]))
		sb.WriteString("\n")
	}

	pct := lingua.StreakPercent(p)
	sb.WriteString(b.styles.Muted.Render("Longest streak " + days(p.LongestStreak)))
	sb.WriteString("\n")
	sb.WriteString(b.bar(pct))
	sb.WriteString(fmt.Sprintf(" %d%%", int(math.Round(pct))))
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

func (b *ProgressBlock) bar(pct float64) string {
	filled := int(math.Round(pct / 100 * streakBarWidth))
	filled = min(max(filled, 0), streakBarWidth)
	return b.styles.Success.Render(strings.Repeat("█", filled)) +
		b.styles.Muted.Render(strings.Repeat("░", streakBarWidth-filled))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
