// Package install defines the provisioning pipeline: the ordered steps that
// take a bare host to a running stack. Steps are idempotent; a re-run skips
// everything whose goal state already holds and never rotates secrets or
// destroys data.
package install

import (
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/provisioning"
)

// Pipeline assembles the ordered step list for a deployment profile.
//
// The cloud profile prepends operator-account creation so every later step
// runs on a host that is already reachable without the root password. The
// strict profiles (production, cloud) add TLS tooling and the firewall; dev
// serves plain HTTP on the configured domain and skips both.
func Pipeline(profile config.Profile) []provisioning.Step {
	var steps []provisioning.Step

	if profile == config.ProfileCloud {
		steps = append(steps, createOperatorStep())
	}

	steps = append(steps,
		installDependenciesStep(),
		installDockerStep(),
		installNginxStep(),
	)

	if profile.Strict() {
		steps = append(steps,
			installCertbotStep(),
			configureFirewallStep(),
		)
	}

	steps = append(steps,
		filesystemLayoutStep(),
		generateCredentialsStep(),
		renderConfigsStep(),
		startContainersStep(),
		awaitDatabaseStep(),
		migrateSeedStep(),
	)

	if profile.Strict() {
		steps = append(steps, issueCertificateStep())
	}

	steps = append(steps,
		optimizeAppStep(),
		installManagementCLIStep(),
	)

	return steps
}
