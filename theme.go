package lingua

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg  int // User message accent
	Tutor    int // Assistant message accent
	Tool     int // Paraphrase and formula result headers
	Error    int // Error messages
	Success  int // Success indicators, progress bar fill
	Muted    int // Status bar, placeholders
	CodeBg   int // Code block background
	Accent   int // Headings, links
	Speaking int // Speaking indicator
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		Tutor:    6,
		Tool:     3,
		Error:    1,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   5,
		Speaking: 2,
	}
}
