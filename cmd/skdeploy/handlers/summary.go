package handlers

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/credentials"
	"github.com/sekolahku/skdeploy/internal/install"
	"github.com/sekolahku/skdeploy/internal/provisioning"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#22c55e"))

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3b82f6")).
			Padding(0, 1)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6b7280")).
				Width(18)

	summaryWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#eab308"))
)

func summaryRow(label, value string) string {
	return summaryLabelStyle.Render(label) + value
}

// printInstallSummary reports the finished installation. Secrets print in
// full exactly once, on the run that generated them; every later run shows
// redacted prefixes only.
func printInstallSummary(runCtx *provisioning.Context, profile config.Profile) {
	cfg := runCtx.Config
	scheme := "https"
	if profile == config.ProfileDev {
		scheme = "http"
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, summaryTitleStyle.Render("Installation complete"))
	fmt.Fprintln(stdout)

	rows := []string{
		summaryRow("URL", scheme+"://"+cfg.Domain),
		summaryRow("Profile", string(profile)),
		summaryRow("Tier", fmt.Sprintf("%s (%d workers)", runCtx.Resources.Tier, runCtx.Resources.Params.Workers)),
		summaryRow("Admin user", cfg.AdminUsername),
	}

	creds := runCtx.Credentials
	if runCtx.CredentialsCreated {
		rows = append(rows,
			summaryRow("Admin password", creds.AdminPassword),
			summaryRow("DB password", creds.DBPassword),
		)
	} else {
		rows = append(rows,
			summaryRow("Admin password", credentials.Redacted(creds.AdminPassword)),
			summaryRow("DB password", credentials.Redacted(creds.DBPassword)),
		)
	}
	if profile == config.ProfileCloud {
		rows = append(rows, summaryRow("Operator key", install.OperatorKeyPath))
	}

	fmt.Fprintln(stdout, summaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	if runCtx.CredentialsCreated {
		fmt.Fprintln(stdout, summaryWarnStyle.Render(
			"Passwords are shown in full only this once. They are stored in "+compose.CredentialsPath+" (root-only)."))
	}
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Manage the installation with: skdeploy status | logs | backup | highperf\n")
}
