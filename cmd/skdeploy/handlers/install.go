package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/install"
	"github.com/sekolahku/skdeploy/internal/provisioning"
	"github.com/sekolahku/skdeploy/internal/resources"
)

// Install runs the provisioning pipeline: validate inputs, check resource
// gates, then execute every step in order. Safe to re-run; completed steps
// are skipped and secrets are never rotated.
func Install(ctx context.Context, configPath, profileName string) error {
	profile, err := config.ParseProfile(profileName)
	if err != nil {
		return err
	}

	cfg, err := loadConfigFile(configPath, profile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	h := newHost()
	readings, err := probeReadings(h)
	if err != nil {
		return fmt.Errorf("failed to measure host resources: %w", err)
	}
	// Hard gates abort before any side effect.
	if err := resources.CheckGates(readings, profile.Strict()); err != nil {
		return err
	}
	res := resources.NewProfile(readings)

	steps := install.Pipeline(profile)
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}

	var runCtx *provisioning.Context
	runSteps := func(obs provisioning.Observer) error {
		pctx := provisioning.NewContext(ctx, cfg, res, nil, h)
		if obs != nil {
			pctx.Observer = obs
		}
		runCtx = pctx
		return provisioning.Run(pctx, steps)
	}

	subtitle := fmt.Sprintf("%s · %s profile · %s tier", cfg.Domain, profile, res.Tier)
	if isTerminal() {
		err = runProgress("Sekolahku Installer", subtitle, names, runSteps)
	} else {
		err = runSteps(nil)
	}
	if err != nil {
		return err
	}

	printInstallSummary(runCtx, profile)
	return nil
}
