package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent = lipgloss.Color("#5fd7ff")
	colorGood   = lipgloss.Color("#87d787")
	colorWarn   = lipgloss.Color("#ffd75f")
	colorBad    = lipgloss.Color("#ff5f5f")
	colorDim    = lipgloss.Color("#6c6c8a")
	colorValue  = lipgloss.Color("#afd7ff")
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1)

	Title         = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	Subtle        = lipgloss.NewStyle().Foreground(colorDim)
	KeyHint       = Subtle.Italic(true)
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	StatusFailed  = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	MetricLabel   = lipgloss.NewStyle().Foreground(colorDim).Width(16)
	MetricValue   = lipgloss.NewStyle().Foreground(colorValue).Bold(true)

	levels = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorBad),
		lipgloss.NewStyle().Foreground(colorWarn),
		lipgloss.NewStyle().Foreground(colorGood),
	}
)

// level picks a colour for a fraction in [0, 1].
func level(frac float64) lipgloss.Style {
	switch {
	case frac > 0.7:
		return levels[2]
	case frac > 0.3:
		return levels[1]
	}
	return levels[0]
}

// Field is one labelled value of a summary panel.
type Field struct {
	Label string
	Value string
}

func F(label, format string, args ...interface{}) Field {
	return Field{Label: label, Value: fmt.Sprintf(format, args...)}
}

// Summary renders a titled panel of label/value rows.
func Summary(title string, fields []Field) string {
	rows := make([]string, 0, len(fields)+1)
	rows = append(rows, Title.Render(title))
	for _, f := range fields {
		rows = append(rows, MetricLabel.Render(f.Label)+MetricValue.Render(f.Value))
	}
	return Panel.Render(strings.Join(rows, "\n"))
}

// ProgressBar renders frac of width cells filled, clamped to [0, 1].
func ProgressBar(frac float64, width int) string {
	frac = clamp(frac)
	filled := int(frac * float64(width))
	return level(frac).Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

var bars = []rune("▁▂▃▄▅▆▇█")

// SparklineChart renders the last width values as a one-line chart
// scaled to their own range.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		frac := clamp((v - lo) / span)
		b.WriteString(level(frac).Render(string(bars[int(frac*float64(len(bars)-1))])))
	}
	return b.String()
}

func Separator(width int) string {
	side := (width - 3) / 2
	if side < 0 {
		side = 0
	}
	return Subtle.Render(strings.Repeat("─", side) + " ◆ " + strings.Repeat("─", side))
}

func clamp(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
