// Package readiness gates dependent provisioning steps on bounded-retry
// liveness polling of a backing service.
package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// Polling defaults: 30 attempts at 5s covers slow first-boot database
// initialization on small hosts.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 30
)

// Status is the probe outcome.
type Status int

// Probe outcomes.
const (
	Ready Status = iota
	TimedOut
)

func (s Status) String() string {
	if s == Ready {
		return "ready"
	}
	return "timed out"
}

// Endpoint is a dependency with a liveness predicate.
type Endpoint struct {
	Name    string
	Healthy func(ctx context.Context) bool
}

// TimeoutError reports that an endpoint never became healthy within the
// bounded retry budget. The orchestrator treats it as fatal.
type TimeoutError struct {
	Endpoint string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("readiness: %s not healthy after %d attempts", e.Endpoint, e.Attempts)
}

// Probe polls the endpoint at a fixed interval up to maxAttempts.
//
// It performs exactly k attempts if success occurs on attempt k, and exactly
// maxAttempts attempts when the endpoint never becomes healthy, with no early
// giveup, no attempts beyond the ceiling. The returned attempt count is the
// number of liveness checks actually performed.
func Probe(ctx context.Context, ep Endpoint, interval time.Duration, maxAttempts int) (Status, int, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ep.Healthy(ctx) {
			return Ready, attempt, nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return TimedOut, attempt, fmt.Errorf("readiness poll of %s interrupted: %w", ep.Name, ctx.Err())
		case <-time.After(interval):
		}
	}
	return TimedOut, maxAttempts, nil
}

// Database returns the liveness endpoint of the stack's database container.
func Database(client *docker.Client, container string) Endpoint {
	return Endpoint{
		Name: container,
		Healthy: func(ctx context.Context) bool {
			_, err := client.Exec(ctx, container, "mysqladmin", "ping", "-h", "localhost", "--silent")
			return err == nil
		},
	}
}
