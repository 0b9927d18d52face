package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are rebuilt from CurrentTheme on every render so theme changes
// apply immediately.
type styles struct {
	panel, title, label, value, active, hint lipgloss.Style
	ok, warn, bad                            lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		hint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		ok:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		warn:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		bad:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// CenterBar renders a signed value as a bar growing left or right from the
// middle, saturating at ±limit.
func CenterBar(v, limit float64, width int) string {
	half := width / 2
	n := 0
	if limit > 0 {
		n = int(math.Round(math.Min(math.Abs(v)/limit, 1) * float64(half)))
	}

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	if v < 0 {
		left = strings.Repeat("░", half-n) + strings.Repeat("█", n)
	} else {
		right = strings.Repeat("█", n) + strings.Repeat("░", half-n)
	}
	return left + "│" + right
}

// ProgressBar renders a [0, 1] fraction.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
