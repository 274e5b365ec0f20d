// Package host abstracts the machine being provisioned behind a capability
// interface so steps, probes and management commands can be exercised against
// a fake implementation in tests, independent of a real OS.
package host

import (
	"context"
	"io"
	"os"
)

// Result captures the outcome of a command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr concatenated, for diagnostics.
func (r Result) Combined() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// Host is the capability surface the orchestrator is allowed to touch.
// Every host mutation goes through this interface.
type Host interface {
	// Run executes a command and captures its output. A non-zero exit
	// status is returned as an error alongside the captured Result.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunInput is Run with the given reader attached to stdin.
	// Used for piping dumps into the database container.
	RunInput(ctx context.Context, stdin io.Reader, name string, args ...string) (Result, error)

	// RunInteractive executes a command attached to the caller's terminal.
	// Used for shell/mysql/logs passthrough.
	RunInteractive(ctx context.Context, name string, args ...string) error

	// LookPath reports where a binary resolves in PATH, if anywhere.
	LookPath(name string) (string, error)

	FileExists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error

	// Glob expands a filesystem pattern, used for backup retention.
	Glob(pattern string) ([]string, error)

	// DiskFree returns the free bytes on the filesystem containing path.
	DiskFree(path string) (uint64, error)
}
