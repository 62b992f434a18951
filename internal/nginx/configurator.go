// Package nginx renders and installs reverse-proxy site definitions on
// the remote host. The nginx daemon is an external collaborator; shipward
// only writes site files and asks it to test and reload.
package nginx

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/remote"
	"github.com/shipward/shipward/internal/security"
	"github.com/shipward/shipward/internal/ssh"
	"github.com/shipward/shipward/internal/tlscert"
)

// Site describes one reverse-proxy site to configure
type Site struct {
	Identity string
	Strategy config.TLSStrategy
	// Port is the host port the proxy forwards to
	Port int
	// Domain is required for the managed strategy only
	Domain string
	// Cert is required for the self-signed strategy only
	Cert *tlscert.KeyPair
}

// Configurator installs, activates and removes site definitions
type Configurator struct {
	exec ssh.Executor
	logf func(string, ...interface{})
}

// NewConfigurator creates a configurator running commands through exec
func NewConfigurator(exec ssh.Executor, logf func(string, ...interface{})) *Configurator {
	return &Configurator{exec: exec, logf: logf}
}

// Render produces the site definition for the selected strategy
func Render(site Site) (string, error) {
	if err := security.ValidateAppName(site.Identity); err != nil {
		return "", err
	}
	if site.Port < 1 || site.Port > 65535 {
		return "", fmt.Errorf("proxy target port %d out of range", site.Port)
	}

	data := siteData{Identity: site.Identity, Port: site.Port}

	switch site.Strategy {
	case config.TLSNone:
		return render(httpTemplate, data)
	case config.TLSSelfSigned:
		if site.Cert == nil {
			return "", fmt.Errorf("self-signed site requires certificate paths")
		}
		data.CertPath = site.Cert.CertPath
		data.KeyPath = site.Cert.KeyPath
		return render(selfSignedTemplate, data)
	case config.TLSManaged:
		if err := security.ValidateDomain(site.Domain); err != nil {
			return "", err
		}
		data.Domain = site.Domain
		return render(managedTemplate, data)
	default:
		return "", fmt.Errorf("unknown TLS strategy %v", site.Strategy)
	}
}

// Configure renders the site, installs it under sites-available, activates
// it via the sites-enabled symlink, removes the distribution default site,
// then runs the syntax check and reload. The syntax check is a hard gate:
// the running proxy is never asked to reload a config that does not parse,
// so the previously active configuration stays in force on failure.
func (c *Configurator) Configure(ctx context.Context, site Site) error {
	content, err := Render(site)
	if err != nil {
		return err
	}

	if err := c.install(ctx, site.Identity, content); err != nil {
		return err
	}
	return c.TestAndReload(ctx)
}

func (c *Configurator) install(ctx context.Context, identity, content string) error {
	sitePath := remote.SitePath(identity)
	linkPath := remote.SiteLinkPath(identity)

	// base64 transport avoids heredoc and quoting pitfalls for arbitrary
	// rendered content
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	cmd := fmt.Sprintf("set -e\n"+
		"echo %s | base64 -d | sudo -n tee %s >/dev/null\n"+
		"sudo -n ln -sfn %s %s\n"+
		"sudo -n rm -f %s/default\n",
		encoded, sitePath, sitePath, linkPath, remote.SitesEnabledDir)

	result, err := c.exec.Exec(ctx, cmd)
	if err != nil {
		return fmt.Errorf("site installation failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("site installation exited %d: %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}
	c.logf("Installed site %s", sitePath)
	return nil
}

// TestAndReload validates proxy syntax and reloads the daemon. Exported
// because the managed-certificate flow must re-validate after certbot
// rewrites the site in place.
func (c *Configurator) TestAndReload(ctx context.Context) error {
	result, err := c.exec.Exec(ctx, "sudo -n nginx -t")
	if err != nil {
		return fmt.Errorf("proxy syntax check failed to run: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("proxy configuration rejected (exit %d): %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}

	result, err = c.exec.Exec(ctx, "sudo -n systemctl reload nginx")
	if err != nil {
		return fmt.Errorf("proxy reload failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("proxy reload exited %d: %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}
	return nil
}

// Deconfigure removes the site's available and enabled references and
// reloads. Absence is tolerated: cleanup of a never-deployed identity is
// a no-op.
func (c *Configurator) Deconfigure(ctx context.Context, identity string) error {
	if err := security.ValidateAppName(identity); err != nil {
		return err
	}

	cmd := fmt.Sprintf("sudo -n rm -f %s %s",
		remote.SiteLinkPath(identity), remote.SitePath(identity))
	if _, err := c.exec.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("site removal failed: %w", err)
	}

	// Reload so the removal takes effect; a host with no nginx running
	// (nothing was ever deployed) must not turn this into an error.
	_, _ = c.exec.Exec(ctx, "sudo -n nginx -t 2>/dev/null && sudo -n systemctl reload nginx || true")
	return nil
}
