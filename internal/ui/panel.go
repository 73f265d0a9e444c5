package ui

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws lines inside the theme's frame.
func (t Theme) Panel(w io.Writer, lines []string) {
	_, _ = io.WriteString(w, t.Frame.Render(strings.Join(lines, "\n"))+"\n")
}

// Header renders the "Tasks ✔ n • n Total n" summary line.
func (t Theme) Header(done, pending int) string {
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)
}
