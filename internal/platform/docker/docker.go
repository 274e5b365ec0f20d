// Package docker wraps the container runtime CLI behind a small client so
// provisioning steps and management commands never shell out directly.
package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sekolahku/skdeploy/internal/platform/host"
)

// Client drives docker and docker compose through the host interface.
type Client struct {
	host host.Host
}

// New returns a Client over the given host.
func New(h host.Host) *Client {
	return &Client{host: h}
}

// Installed reports whether the docker binary resolves in PATH.
func (c *Client) Installed() bool {
	_, err := c.host.LookPath("docker")
	return err == nil
}

// ComposeUp starts the composition described by file, detached.
func (c *Client) ComposeUp(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "up", "-d")
	if err != nil {
		return fmt.Errorf("compose up failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// ComposeDown stops the composition. Named volumes are left in place; data
// removal happens only through DestroyVolumes.
func (c *Client) ComposeDown(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "down")
	if err != nil {
		return fmt.Errorf("compose down failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// ComposeStop stops containers without removing them.
func (c *Client) ComposeStop(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "stop")
	if err != nil {
		return fmt.Errorf("compose stop failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// ComposeStart starts previously created containers.
func (c *Client) ComposeStart(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "start")
	if err != nil {
		return fmt.Errorf("compose start failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// ComposeRestart restarts the composition's containers.
func (c *Client) ComposeRestart(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "restart")
	if err != nil {
		return fmt.Errorf("compose restart failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// ComposePull pulls current images for the composition.
func (c *Client) ComposePull(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "pull")
	if err != nil {
		return fmt.Errorf("compose pull failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// DestroyVolumes tears the composition down including its named volumes.
// Only the reset path may call this.
func (c *Client) DestroyVolumes(ctx context.Context, file string) error {
	res, err := c.host.Run(ctx, "docker", "compose", "-f", file, "down", "-v")
	if err != nil {
		return fmt.Errorf("compose down -v failed: %w\n%s", err, res.Combined())
	}
	return nil
}

// RunningContainers returns the names of all running containers.
func (c *Client) RunningContainers(ctx context.Context) ([]string, error) {
	res, err := c.host.Run(ctx, "docker", "ps", "--format", "{{.Names}}")
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w\n%s", err, res.Combined())
	}
	var names []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// ContainerState returns the runtime state of a container ("running",
// "exited", ...).
func (c *Client) ContainerState(ctx context.Context, name string) (string, error) {
	res, err := c.host.Run(ctx, "docker", "inspect", "--format", "{{.State.Status}}", name)
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", name, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Exec runs a command inside a container, capturing output.
func (c *Client) Exec(ctx context.Context, container string, cmd ...string) (host.Result, error) {
	args := append([]string{"exec", container}, cmd...)
	return c.host.Run(ctx, "docker", args...)
}

// ExecEnv runs a command inside a container with extra environment
// variables, for one-shot jobs that must not see their inputs persisted.
func (c *Client) ExecEnv(ctx context.Context, container string, env []string, cmd ...string) (host.Result, error) {
	args := []string{"exec"}
	for _, e := range env {
		args = append(args, "-e", e)
	}
	args = append(args, container)
	args = append(args, cmd...)
	return c.host.Run(ctx, "docker", args...)
}

// ExecInput is Exec with stdin attached, for piping dumps.
func (c *Client) ExecInput(ctx context.Context, stdin io.Reader, container string, cmd ...string) (host.Result, error) {
	args := append([]string{"exec", "-i", container}, cmd...)
	return c.host.RunInput(ctx, stdin, "docker", args...)
}

// ExecInteractive attaches the caller's terminal to a command inside a
// container (shell, database client).
func (c *Client) ExecInteractive(ctx context.Context, container string, cmd ...string) error {
	args := append([]string{"exec", "-it", container}, cmd...)
	return c.host.RunInteractive(ctx, "docker", args...)
}

// Logs streams service logs to the caller's terminal.
func (c *Client) Logs(ctx context.Context, file string, services ...string) error {
	args := append([]string{"compose", "-f", file, "logs", "--tail", "100", "-f"}, services...)
	return c.host.RunInteractive(ctx, "docker", args...)
}
