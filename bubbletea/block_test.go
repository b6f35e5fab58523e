package bubbletea_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lingua"
	bt "github.com/fwojciec/lingua/bubbletea"
	"github.com/fwojciec/lingua/markdown"
	"github.com/stretchr/testify/assert"
)

func TestTutorBlock(t *testing.T) {
	t.Parallel()
	theme := lingua.DefaultTheme()

	t.Run("accumulates deltas", func(t *testing.T) {
		t.Parallel()
		b := bt.NewTutorBlock("", theme)
		b.Append("¡Hola ")
		b.Append("amigo!")
		assert.Equal(t, "¡Hola amigo!", b.Text())
		assert.Contains(t, b.View(80), "¡Hola amigo!")
	})

	t.Run("empty block renders nothing", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", bt.NewTutorBlock("", theme).View(80))
	})

	t.Run("streamed view matches a one-shot render", func(t *testing.T) {
		t.Parallel()
		full := "First paragraph.\n\n- one\n- two\n\nLast paragraph."
		b := bt.NewTutorBlock("", theme)
		for _, r := range full {
			b.Append(string(r))
		}
		assert.Equal(t, markdown.Render(full, 60, theme), b.View(60))
	})

	t.Run("unclosed fence renders as code while streaming", func(t *testing.T) {
		t.Parallel()
		b := bt.NewTutorBlock("Try this:\n\n```\n=SUM(A1:A3)\n\nmore", theme)
		view := b.View(80)
		assert.Contains(t, view, "│ =SUM(A1:A3)")
		assert.Contains(t, view, "│ more")
	})

	t.Run("rerenders at a new width", func(t *testing.T) {
		t.Parallel()
		b := bt.NewTutorBlock("one two three four five six seven eight nine ten\n\ntail", theme)
		narrow := b.View(20)
		wide := b.View(120)
		assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})
}

func TestToolBlock(t *testing.T) {
	t.Parallel()
	theme := lingua.DefaultTheme()
	styles := bt.NewStyles(theme)

	t.Run("shows input and pending status while streaming", func(t *testing.T) {
		t.Parallel()
		b := bt.NewToolBlock("Paraphrase", "send it", theme, styles)
		b.Append("Please send it.")
		view := b.View(80)
		assert.Contains(t, view, "▼ Paraphrase …")
		assert.Contains(t, view, "“send it”")
		assert.Contains(t, view, "Please send it.")
	})

	t.Run("cannot collapse before finishing", func(t *testing.T) {
		t.Parallel()
		b := bt.NewToolBlock("Formula", "sum", theme, styles)
		b.Update(bt.ToggleMsg{})
		assert.False(t, b.Collapsed())
	})

	t.Run("finished block toggles", func(t *testing.T) {
		t.Parallel()
		b := bt.NewToolBlock("Formula", "sum", theme, styles)
		b.Append("`=SUM(A:A)` adds column A.")
		b.Finish(lingua.Outcome{Kind: lingua.OutcomeCompleted})

		b.Update(bt.ToggleMsg{})
		assert.True(t, b.Collapsed())
		assert.Contains(t, b.View(80), "▶ Formula ✓  `=SUM(A:A)` adds column A.")

		b.Update(bt.ToggleMsg{})
		assert.False(t, b.Collapsed())
	})

	t.Run("failure mark", func(t *testing.T) {
		t.Parallel()
		b := bt.NewToolBlock("Formula", "sum", theme, styles)
		b.Finish(lingua.Outcome{Kind: lingua.OutcomeFailed})
		assert.Contains(t, b.View(80), "▼ Formula ✗")
	})
}

func TestNoticeBlock(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(lingua.DefaultTheme())

	b := bt.NewErrorNoticeBlock("Rate limit exceeded", "Please wait a moment before sending another message.", styles)
	assert.True(t, b.IsError())
	view := b.View(30)
	assert.Contains(t, view, "✗ Rate limit exceeded")
	assert.Contains(t, view, "moment")
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30)
	}

	info := bt.NewNoticeBlock("Stopped", "", styles)
	assert.False(t, info.IsError())
	assert.Equal(t, "! Stopped", strings.TrimSpace(info.View(80)))
}

func TestProgressBlock(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(lingua.DefaultTheme())

	tests := []struct {
		name     string
		progress lingua.Progress
		want     []string
	}{
		{
			name:     "half streak",
			progress: lingua.Progress{TotalLessons: 4, TotalWords: 120, TotalTimeSeconds: 1500, CurrentStreak: 2, LongestStreak: 4},
			want:     []string{"Lessons completed  4", "Words learned      120", "Practice time      25m", "2 days", "Longest streak 4 days", strings.Repeat("█", 10) + strings.Repeat("░", 10) + " 50%"},
		},
		{
			name:     "no streak yet",
			progress: lingua.Progress{},
			want:     []string{"0 days", strings.Repeat("░", 20) + " 0%"},
		},
		{
			name:     "single day",
			progress: lingua.Progress{CurrentStreak: 1, LongestStreak: 1},
			want:     []string{"1 day", strings.Repeat("█", 20) + " 100%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			view := bt.NewProgressBlock(lingua.User{Email: "ana@example.com"}, tt.progress, styles).View(80)
			assert.Contains(t, view, "Your progress · ana@example.com")
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
		})
	}
}

func TestBlockSeparator(t *testing.T) {
	t.Parallel()
	theme := lingua.DefaultTheme()
	styles := bt.NewStyles(theme)

	user := bt.NewUserMessageBlock("hi", styles)
	tutorBlock := bt.NewTutorBlock("hello", theme)
	tool := bt.NewToolBlock("Paraphrase", "x", theme, styles)
	notice := bt.NewErrorNoticeBlock("Error", errors.New("x").Error(), styles)

	assert.Equal(t, "\n\n", bt.BlockSeparator(user, tutorBlock))
	assert.Equal(t, "\n\n", bt.BlockSeparator(tutorBlock, user))
	assert.Equal(t, "\n", bt.BlockSeparator(tutorBlock, notice))
	assert.Equal(t, "\n", bt.BlockSeparator(tool, notice))
	assert.Equal(t, "\n\n", bt.BlockSeparator(user, notice))
}

func TestUserMessageBlock(t *testing.T) {
	t.Parallel()
	b := bt.NewUserMessageBlock("a long message that needs to wrap somewhere", bt.NewStyles(lingua.DefaultTheme()))
	view := b.View(20)
	assert.True(t, strings.HasPrefix(view, "> a long"))
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 20)
	}
}

func TestNewStyles(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(lingua.DefaultTheme())

	assert.Equal(t, lipgloss.Color("4"), styles.UserMsg.GetForeground())
	assert.True(t, styles.UserMsg.GetBold())
	assert.Equal(t, lipgloss.Color("6"), styles.Tutor.GetForeground())
	assert.Equal(t, lipgloss.Color("3"), styles.Tool.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), styles.Error.GetForeground())
	assert.Equal(t, lipgloss.Color("2"), styles.Success.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Muted.GetForeground())
	assert.True(t, styles.Muted.GetFaint())
	assert.Equal(t, lipgloss.Color("2"), styles.Speaking.GetForeground())

	assert.True(t, styles.Speaking.GetItalic())

	custom := bt.NewStyles(lingua.Theme{Tool: 11, Speaking: 13})
	assert.Equal(t, lipgloss.Color("11"), custom.Tool.GetForeground())
	assert.True(t, custom.Tool.GetBold())
	assert.Equal(t, lipgloss.Color("13"), custom.Speaking.GetForeground())

	noColor := bt.NewStyles(lingua.Theme{UserMsg: -1})
	assert.Equal(t, lipgloss.NoColor{}, noColor.UserMsg.GetForeground())
}
