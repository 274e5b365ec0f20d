package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sekolahku/skdeploy/internal/platform/host"
)

// RenderAll writes every artifact of both profiles into the app directory.
// Idempotent: identical inputs produce byte-identical files; the credentials
// passed in are preserved verbatim because they come from the persisted
// artifact, so a re-render never rotates secrets.
func (c *Composer) RenderAll(h host.Host) error {
	env, err := c.EnvFile()
	if err != nil {
		return err
	}
	standard, err := c.ComposeFile(ModeStandard)
	if err != nil {
		return err
	}
	highperf, err := c.ComposeFile(ModeHighPerformance)
	if err != nil {
		return err
	}
	nginx, err := c.NginxConf()
	if err != nil {
		return err
	}
	fpm, err := c.FPMConf()
	if err != nil {
		return err
	}

	files := []struct {
		path string
		data []byte
		perm os.FileMode
	}{
		{EnvPath, []byte(env), 0o600},
		{ComposeStandardPath, standard, 0o644},
		{ComposeHighPerfPath, highperf, 0o644},
		{NginxConfPath, []byte(nginx), 0o644},
		{FPMConfPath, []byte(fpm), 0o644},
	}

	for _, f := range files {
		if err := h.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
		}
		if err := h.WriteFile(f.path, f.data, f.perm); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}
	return nil
}
