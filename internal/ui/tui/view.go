package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderPhases(&b, m)

	if m.ArtifactTotal > 0 {
		renderUploadProgress(&b, m)
	}

	if m.Done && m.URL != "" {
		b.WriteString(sectionStyle.Render("  Deployed"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "    %s %s\n", readyStyle.Render(checkMark), m.URL)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("hostctl: %s", m.EnvID)))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Deployed")
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Deploying...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Workflow"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		fmt.Fprintf(b, "    %s %s\n", style(icon), style(phase.Name))
	}
}

func renderUploadProgress(b *strings.Builder, m Model) {
	progress := float64(m.ArtifactDone) / float64(m.ArtifactTotal)

	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d/%d\n", bar, m.ArtifactDone, m.ArtifactTotal)
	if m.LastArtifact != "" && !m.Done {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(m.LastArtifact))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s  |  q: quit", elapsed)))
	b.WriteString("\n")
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
