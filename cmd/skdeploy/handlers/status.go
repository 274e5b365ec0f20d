package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/mode"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/resources"
)

var (
	statusUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	statusDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	statusDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// containersFor lists the expected container names for a mode, in display
// order.
func containersFor(m compose.Mode) []string {
	suffix := ""
	if m == compose.ModeHighPerformance {
		suffix = "-hp"
	}
	return []string{
		compose.ContainerApp + suffix,
		compose.ContainerDB + suffix,
		compose.ContainerCache + suffix,
		compose.ContainerQueue + suffix,
		compose.ContainerCron + suffix,
	}
}

// Status reports the live stack state: active mode, per-container runtime
// state and the host's resource tier.
func Status(ctx context.Context) error {
	h := newHost()
	client := docker.New(h)

	m, running, err := mode.Current(ctx, client)
	if err != nil {
		return err
	}

	if !running {
		fmt.Fprintln(stdout, statusDownStyle.Render("Stack is stopped"))
		fmt.Fprintln(stdout, statusDimStyle.Render("Start it with: skdeploy start"))
		return nil
	}

	label := "standard"
	if m == compose.ModeHighPerformance {
		label = "high-performance"
	}
	fmt.Fprintf(stdout, "Mode: %s\n\n", statusUpStyle.Render(label))

	for _, name := range containersFor(m) {
		state, err := client.ContainerState(ctx, name)
		if err != nil {
			state = "missing"
		}
		style := statusDownStyle
		if state == "running" {
			style = statusUpStyle
		}
		fmt.Fprintf(stdout, "  %-24s %s\n", name, style.Render(state))
	}

	readings, err := probeReadings(h)
	if err != nil {
		return nil // status stays useful on hosts where /proc is unreadable
	}
	tier := resources.Classify(readings.RAMMB)
	fmt.Fprintf(stdout, "\nHost: %dMB RAM, %d cores, %dGB free, %s tier\n",
		readings.RAMMB, readings.CPUCores, readings.FreeDiskGB, tier)
	return nil
}
