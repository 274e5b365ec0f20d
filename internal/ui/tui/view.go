package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n")
	if m.Subtitle != "" {
		b.WriteString(subtitleStyle.Render(m.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, step := range m.Steps {
		b.WriteString(renderStep(step, m.SpinnerFrame))
		b.WriteString("\n")
	}

	if m.LastLog != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.LastLog))
		b.WriteString("\n")
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(failedStyle.Render("Error: " + m.Err.Error()))
		b.WriteString("\n")
	}

	elapsed := time.Since(m.StartTime).Round(time.Second)
	switch {
	case m.Done:
		b.WriteString(footerStyle.Render(fmt.Sprintf("Finished in %s", elapsed)))
	case m.Err != nil:
		b.WriteString(footerStyle.Render(fmt.Sprintf("Aborted after %s", elapsed)))
	default:
		b.WriteString(footerStyle.Render(fmt.Sprintf("Elapsed %s · q to quit", elapsed)))
	}
	b.WriteString("\n")

	return b.String()
}

func renderStep(step StepView, frame int) string {
	switch step.State {
	case StateActive:
		mark := spinnerFrames[frame%len(spinnerFrames)]
		return activeStyle.Render(mark + " " + step.Name)
	case StateDone:
		return doneStyle.Render(checkMark + " " + step.Name)
	case StateSkipped:
		return dimStyle.Render(skipMark + " " + step.Name + " (already done)")
	case StateWarned:
		line := warnMark + " " + step.Name
		if step.Message != "" {
			line += ": " + step.Message
		}
		return warnStyle.Render(line)
	case StateFailed:
		line := crossMark + " " + step.Name
		if step.Message != "" {
			line += ": " + step.Message
		}
		return failedStyle.Render(line)
	default:
		return dimStyle.Render(pending + " " + step.Name)
	}
}
