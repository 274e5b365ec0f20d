package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/config"
)

// Init collects an installation config interactively and writes it to path.
func Init(ctx context.Context, path, profileName string) error {
	profile, err := config.ParseProfile(profileName)
	if err != nil {
		return err
	}

	cfg, err := runWizard(ctx, profile)
	if err != nil {
		return err
	}

	h := newHost()
	if h.FileExists(path) {
		ok, err := confirm(fmt.Sprintf("%s already exists. Overwrite it?", path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted; %s left untouched", path)
		}
	}

	// The file may hold an admin password; keep it owner-only.
	if err := h.WriteFile(path, []byte(cfg.FileContent()), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(stdout, "Wrote %s\n", path)
	fmt.Fprintf(stdout, "Next: skdeploy install --config %s --profile %s\n", path, profile)
	return nil
}
