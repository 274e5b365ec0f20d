package host

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// Local is the real Host implementation backed by os/exec and the local
// filesystem.
type Local struct{}

// NewLocal returns a Host operating on the local machine.
func NewLocal() *Local {
	return &Local{}
}

// Run implements Host.
func (l *Local) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return l.run(ctx, nil, name, args...)
}

// RunInput implements Host.
func (l *Local) RunInput(ctx context.Context, stdin io.Reader, name string, args ...string) (Result, error) {
	return l.run(ctx, stdin, name, args...)
}

func (l *Local) run(ctx context.Context, stdin io.Reader, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	return res, err
}

// RunInteractive implements Host.
func (l *Local) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// LookPath implements Host.
func (l *Local) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// FileExists implements Host.
func (l *Local) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile implements Host.
func (l *Local) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile implements Host.
func (l *Local) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll implements Host.
func (l *Local) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove implements Host.
func (l *Local) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll implements Host.
func (l *Local) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Glob implements Host.
func (l *Local) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// DiskFree implements Host.
func (l *Local) DiskFree(path string) (uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil //nolint:unconvert // Bsize is int64 on some platforms
}
