// Package wizard collects an installation config interactively. Field
// validation mirrors the config file loader exactly; a config assembled here
// passes the same Validate call the file path goes through.
package wizard

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/sekolahku/skdeploy/internal/config"
)

// Run walks the operator through the question groups and returns a validated
// config for the given deployment profile.
func Run(ctx context.Context, profile config.Profile) (*config.Config, error) {
	cfg := &config.Config{Profile: profile}

	if err := runSchoolGroup(ctx, cfg); err != nil {
		return nil, err
	}
	if err := runAccessGroup(ctx, cfg); err != nil {
		return nil, err
	}
	if err := runAdminGroup(ctx, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSchoolGroup(ctx context.Context, cfg *config.Config) error {
	var level string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("School Name").
				Description("Shown in the application header and login page").
				Placeholder("SMA Negeri 1 Jakarta").
				Value(&cfg.SchoolName).
				Validate(func(s string) error { return config.CheckSchoolName(s) }),
			huh.NewSelect[string]().
				Title("School Level").
				Description("Determines curriculum structure and report formats").
				Options(schoolLevelOptions...).
				Value(&level),
		).Title("School Identity"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}
	cfg.SchoolLevel = config.SchoolLevel(level)
	return nil
}

func runAccessGroup(ctx context.Context, cfg *config.Config) error {
	cfg.Timezone = config.DefaultTimezone

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Description("Where the site will be reachable").
				Placeholder("sman1jakarta.sch.id").
				Value(&cfg.Domain).
				Validate(func(s string) error { return config.CheckDomain(s, cfg.Profile) }),
			huh.NewSelect[string]().
				Title("Timezone").
				Description("Used for schedules and report timestamps").
				Options(timezoneOptions...).
				Value(&cfg.Timezone),
		).Title("Access"),
	).RunWithContext(ctx)
}

func runAdminGroup(ctx context.Context, cfg *config.Config) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Administrator Username").
				Description("At least 4 characters; letters, digits and underscore").
				Placeholder("admin").
				Value(&cfg.AdminUsername).
				Validate(func(s string) error { return config.CheckUsername(s) }),
			huh.NewInput().
				Title("Administrator Email").
				Placeholder("admin@sman1jakarta.sch.id").
				Value(&cfg.AdminEmail).
				Validate(func(s string) error { return config.CheckEmail(s) }),
			huh.NewInput().
				Title("Administrator Password (Optional)").
				Description("Leave empty to generate a strong one at install time").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.AdminPassword).
				Validate(func(s string) error { return config.CheckPassword("ADMIN_PASSWORD", s, cfg.Profile) }),
		).Title("Administrator Account"),
	).RunWithContext(ctx)
}
