package install

import (
	"fmt"
	"strings"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/credentials"
	"github.com/sekolahku/skdeploy/internal/provisioning"
	"github.com/sekolahku/skdeploy/internal/util/retry"
)

// OperatorUser is the non-root account the cloud profile provisions before
// any other side effect.
const OperatorUser = "operator"

// OperatorKeyPath is where the operator's private key is left for the caller
// to retrieve. Shown once in the install summary.
const OperatorKeyPath = compose.AppDir + "/operator_id_rsa"

const operatorKeyBits = 4096

// basePackages must be present before the docker convenience script runs.
var basePackages = []string{"curl", "ca-certificates", "gnupg", "gzip"}

func createOperatorStep() provisioning.Step {
	return provisioning.Step{
		Name:   "create-operator",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			_, err := ctx.Host.Run(ctx, "id", OperatorUser)
			return err == nil, nil
		},
		Run: func(ctx *provisioning.Context) error {
			if res, err := ctx.Host.Run(ctx, "useradd", "-m", "-s", "/bin/bash", OperatorUser); err != nil {
				return fmt.Errorf("failed to create %s account: %w\n%s", OperatorUser, err, res.Combined())
			}
			if res, err := ctx.Host.Run(ctx, "usermod", "-aG", "sudo", OperatorUser); err != nil {
				return fmt.Errorf("failed to grant sudo to %s: %w\n%s", OperatorUser, err, res.Combined())
			}

			pair, err := credentials.GenerateKeyPair(operatorKeyBits)
			if err != nil {
				return fmt.Errorf("failed to generate operator keypair: %w", err)
			}

			sshDir := "/home/" + OperatorUser + "/.ssh"
			if err := ctx.Host.MkdirAll(sshDir, 0o700); err != nil {
				return err
			}
			if err := ctx.Host.WriteFile(sshDir+"/authorized_keys", pair.AuthorizedKey, 0o600); err != nil {
				return err
			}
			if res, err := ctx.Host.Run(ctx, "chown", "-R", OperatorUser+":"+OperatorUser, sshDir); err != nil {
				return fmt.Errorf("failed to chown %s: %w\n%s", sshDir, err, res.Combined())
			}

			// The private key lands in the app directory so the summary can
			// point at it. Created early, before filesystem-layout runs.
			if err := ctx.Host.MkdirAll(compose.AppDir, 0o755); err != nil {
				return err
			}
			if err := ctx.Host.WriteFile(OperatorKeyPath, pair.PrivateKeyPEM, 0o600); err != nil {
				return err
			}
			ctx.Observer.Printf("operator account created; private key at %s", OperatorKeyPath)
			return nil
		},
	}
}

func installDependenciesStep() provisioning.Step {
	return provisioning.Step{
		Name:   "install-dependencies",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			for _, pkg := range basePackages {
				if _, err := ctx.Host.Run(ctx, "dpkg", "-s", pkg); err != nil {
					return false, nil
				}
			}
			return true, nil
		},
		Run: func(ctx *provisioning.Context) error {
			return aptInstall(ctx, basePackages...)
		},
	}
}

func installDockerStep() provisioning.Step {
	return provisioning.Step{
		Name:   "install-docker",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			return ctx.Docker.Installed(), nil
		},
		Run: func(ctx *provisioning.Context) error {
			res, err := ctx.Host.Run(ctx, "sh", "-c", "curl -fsSL https://get.docker.com | sh")
			if err != nil {
				return fmt.Errorf("docker install script failed: %w\n%s", err, res.Combined())
			}
			if res, err := ctx.Host.Run(ctx, "systemctl", "enable", "--now", "docker"); err != nil {
				return fmt.Errorf("failed to enable docker service: %w\n%s", err, res.Combined())
			}
			return nil
		},
	}
}

func installNginxStep() provisioning.Step {
	return provisioning.Step{
		Name:   "install-nginx",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			_, err := ctx.Host.LookPath("nginx")
			return err == nil, nil
		},
		Run: func(ctx *provisioning.Context) error {
			if err := aptInstall(ctx, "nginx"); err != nil {
				return err
			}
			if res, err := ctx.Host.Run(ctx, "systemctl", "enable", "--now", "nginx"); err != nil {
				return fmt.Errorf("failed to enable nginx service: %w\n%s", err, res.Combined())
			}
			return nil
		},
	}
}

func installCertbotStep() provisioning.Step {
	return provisioning.Step{
		Name:   "install-certbot",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			_, err := ctx.Host.LookPath("certbot")
			return err == nil, nil
		},
		Run: func(ctx *provisioning.Context) error {
			return aptInstall(ctx, "certbot", "python3-certbot-nginx")
		},
	}
}

func configureFirewallStep() provisioning.Step {
	return provisioning.Step{
		Name:   "configure-firewall",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			res, err := ctx.Host.Run(ctx, "ufw", "status")
			if err != nil {
				return false, nil
			}
			return strings.Contains(res.Stdout, "Status: active"), nil
		},
		Run: func(ctx *provisioning.Context) error {
			rules := [][]string{
				{"ufw", "allow", "OpenSSH"},
				{"ufw", "allow", "Nginx Full"},
				{"ufw", "--force", "enable"},
			}
			for _, rule := range rules {
				if res, err := ctx.Host.Run(ctx, rule[0], rule[1:]...); err != nil {
					return fmt.Errorf("%s failed: %w\n%s", strings.Join(rule, " "), err, res.Combined())
				}
			}
			return nil
		},
	}
}

// aptRetry configures package-manager retries; overridden in tests to avoid
// real backoff delays.
var aptRetry []retry.Option

// aptInstall refreshes the package index and installs the given packages,
// retrying on transient failures such as a held dpkg lock or mirror hiccups.
func aptInstall(ctx *provisioning.Context, packages ...string) error {
	if err := retry.Do(ctx, func() error {
		res, err := ctx.Host.Run(ctx, "apt-get", "update", "-q")
		if err != nil {
			return fmt.Errorf("apt-get update failed: %w\n%s", err, res.Combined())
		}
		return nil
	}, aptRetry...); err != nil {
		return err
	}

	args := append([]string{"install", "-y", "-q"}, packages...)
	return retry.Do(ctx, func() error {
		res, err := ctx.Host.Run(ctx, "apt-get", args...)
		if err != nil {
			return fmt.Errorf("apt-get install failed: %w\n%s", err, res.Combined())
		}
		return nil
	}, aptRetry...)
}
