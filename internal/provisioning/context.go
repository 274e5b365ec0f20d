package provisioning

import (
	"context"
	"time"

	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/credentials"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/resources"
)

// Context wraps all dependencies and state a step may touch. It is owned by
// the orchestrator for the duration of one run.
type Context struct {
	context.Context

	Config      *config.Config
	Resources   resources.Profile
	Credentials *credentials.Credentials

	Host     host.Host
	Docker   *docker.Client
	Observer Observer

	// CredentialsCreated is set by the credential step when the secrets were
	// generated fresh on this run, so the caller can show them exactly once.
	CredentialsCreated bool

	// Timeouts are the pipeline's suspension points; overridable in tests.
	ProbeInterval    time.Duration
	ProbeMaxAttempts int
	SettleDelay      time.Duration
}

// NewContext assembles a run context with production timeouts.
func NewContext(ctx context.Context, cfg *config.Config, res resources.Profile, creds *credentials.Credentials, h host.Host) *Context {
	return &Context{
		Context:          ctx,
		Config:           cfg,
		Resources:        res,
		Credentials:      creds,
		Host:             h,
		Docker:           docker.New(h),
		Observer:         NewConsoleObserver(),
		ProbeInterval:    5 * time.Second,
		ProbeMaxAttempts: 30,
		SettleDelay:      15 * time.Second,
	}
}
