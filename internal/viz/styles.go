package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from one Theme.
type styles struct {
	header, label, value, muted lipgloss.Style
	canvas, panel, graph        lipgloss.Style
	running, paused, failed     lipgloss.Style
	high, mid, low              lipgloss.Style
	cursor, selected            lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		header: fg(t.Title).Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Wall),
		label:  fg(t.Wall).Width(12),
		value:  fg(t.Text).Bold(true),
		muted:  fg(t.Wall).Italic(true),
		canvas: fg(t.Filament).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Wall).
			Padding(1, 2).
			Width(42),
		graph:    fg(t.Link).Padding(1, 0),
		running:  fg(t.Grow).Bold(true),
		paused:   fg(t.Stall).Bold(true),
		failed:   fg(t.Fault).Bold(true),
		high:     fg(t.Grow),
		mid:      fg(t.Stall),
		low:      fg(t.Fault),
		cursor:   fg(t.Title).Bold(true),
		selected: fg(t.Text).Bold(true),
	}
}

// progressBar renders a fill level in [0, 1].
func (s styles) progressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac > 0.8:
		return s.low.Render(bar)
	case frac > 0.4:
		return s.mid.Render(bar)
	}
	return s.high.Render(bar)
}

// sparkline renders the last width values scaled to their own range.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		c := string(chars[int(norm*float64(len(chars)-1))])
		switch {
		case norm > 0.7:
			b.WriteString(s.high.Render(c))
		case norm > 0.3:
			b.WriteString(s.mid.Render(c))
		default:
			b.WriteString(s.low.Render(c))
		}
	}
	return b.String()
}
