package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a one-line progress bar.
type ProgressBar struct {
	completed int
	total     int
	label     string
	width     int
}

// NewProgressBar creates a new progress bar with the specified total and width.
func NewProgressBar(total int, width int) *ProgressBar {
	if width <= 0 {
		width = 15
	}
	return &ProgressBar{
		total: total,
		width: width,
	}
}

// Update sets the current progress and label.
func (p *ProgressBar) Update(completed int, label string) {
	p.completed = min(max(completed, 0), p.total)
	p.label = label
}

// Render returns the syllabus-themed bar used by the dashboard.
func (p *ProgressBar) Render() string {
	return p.render("📚 ", styles.palette.accent)
}

// RenderDownload returns the download-themed bar (amber).
func (p *ProgressBar) RenderDownload() string {
	return p.render("⬇ ", styles.palette.warn)
}

func (p *ProgressBar) render(icon string, color lipgloss.Color) string {
	if p.total == 0 {
		return ""
	}

	percent := float64(p.completed) / float64(p.total)
	filled := int(float64(p.width) * percent)
	empty := p.width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)

	iconStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)

	barStyle := lipgloss.NewStyle().
		Foreground(color)

	countStyle := lipgloss.NewStyle().
		Foreground(styles.palette.muted)

	return iconStyle.Render(icon) +
		barStyle.Render("["+bar+"]") +
		countStyle.Render(fmt.Sprintf(" %d/%d ", p.completed, p.total)) +
		iconStyle.Render(p.label)
}

// ClearLine clears the current line for in-place progress updates.
func ClearLine(out io.Writer) {
	_, _ = fmt.Fprint(out, "\r\033[K")
}
