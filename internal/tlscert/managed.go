package tlscert

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipward/shipward/internal/remote"
	"github.com/shipward/shipward/internal/security"
	"github.com/shipward/shipward/internal/ssh"
)

// installCertbotScript is literal: no substitution points, guarded so an
// already prepared host is a no-op.
const installCertbotScript = `set -e
if ! command -v certbot >/dev/null 2>&1; then
    export DEBIAN_FRONTEND=noninteractive
    sudo -n apt-get install -y certbot python3-certbot-nginx
fi
`

// issueScript requests and installs the certificate. Certbot's nginx
// integration rewrites the already active plain-HTTP site for the domain
// to add TLS termination and the HTTP to HTTPS redirect, so that site
// must be live before this runs or the ownership challenge fails.
var issueScript = remote.MustScript("certbot-issue", `set -e
sudo -n certbot --nginx -d {{.Domain}} -m {{.Email}} \
    --agree-tos --non-interactive --redirect
`)

// Managed obtains certificates from Let's Encrypt through certbot
type Managed struct {
	exec  ssh.Executor
	warnf func(string, ...interface{})
}

// NewManaged creates a certbot-backed provisioner. warnf receives
// non-fatal problems such as a renewal timer that would not enable.
func NewManaged(exec ssh.Executor, warnf func(string, ...interface{})) *Managed {
	return &Managed{exec: exec, warnf: warnf}
}

// Issue installs certbot if needed, requests a certificate for domain and
// enables the recurring renewal timer. Issuance failure is fatal; a timer
// that will not enable is only a warning.
func (m *Managed) Issue(ctx context.Context, domain, email string) error {
	if err := security.ValidateDomain(domain); err != nil {
		return err
	}
	if err := security.ValidateEmail(email); err != nil {
		return err
	}

	result, err := m.exec.Exec(ctx, installCertbotScript)
	if err != nil {
		return fmt.Errorf("certbot installation failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("certbot installation exited %d: %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}

	script, err := issueScript.Render(map[string]string{
		"Domain": domain,
		"Email":  email,
	})
	if err != nil {
		return err
	}

	result, err = m.exec.Exec(ctx, script)
	if err != nil {
		return fmt.Errorf("certificate issuance failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("certificate issuance for %s exited %d: %s",
			domain, result.ExitCode, strings.TrimSpace(result.Output))
	}

	m.enableRenewalTimer(ctx)
	return nil
}

func (m *Managed) enableRenewalTimer(ctx context.Context) {
	result, err := m.exec.Exec(ctx, "sudo -n systemctl enable --now certbot.timer")
	if err != nil {
		m.warnf("Could not enable certificate renewal timer: %v", err)
		return
	}
	if !result.OK() {
		m.warnf("Certificate renewal timer not enabled (exit %d): %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}
}
