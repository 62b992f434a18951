// Package tlscert provisions TLS certificates on the remote host, either
// self-signed via openssl or issued by Let's Encrypt via certbot.
package tlscert

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipward/shipward/internal/remote"
	"github.com/shipward/shipward/internal/security"
	"github.com/shipward/shipward/internal/ssh"
)

// KeyPair names the certificate and key files produced for a deployment
type KeyPair struct {
	CertPath string
	KeyPath  string
}

// selfSignedScript generates the pair in place. The private key is
// readable by root only; the certificate is world readable so nginx
// workers can load it.
var selfSignedScript = remote.MustScript("self-signed-cert", `set -e
sudo -n openssl req -x509 -nodes -days 365 -newkey rsa:2048 \
    -keyout {{.KeyPath}} -out {{.CertPath}} -subj {{.Subject}}
sudo -n chmod 600 {{.KeyPath}}
sudo -n chmod 644 {{.CertPath}}
`)

// SelfSigned issues certificates locally on the host, without any CA
type SelfSigned struct {
	exec ssh.Executor
}

// NewSelfSigned creates a self-signed provisioner
func NewSelfSigned(exec ssh.Executor) *SelfSigned {
	return &SelfSigned{exec: exec}
}

// Issue generates a 2048-bit key and a certificate valid 365 days with
// common name = host, stored under deterministic identity-keyed paths.
func (s *SelfSigned) Issue(ctx context.Context, identity, host string) (*KeyPair, error) {
	if err := security.ValidateAppName(identity); err != nil {
		return nil, err
	}
	if err := security.ValidateHost(host); err != nil {
		return nil, err
	}

	pair := &KeyPair{
		CertPath: remote.CertPath(identity),
		KeyPath:  remote.KeyPath(identity),
	}

	script, err := selfSignedScript.Render(map[string]string{
		"KeyPath":  pair.KeyPath,
		"CertPath": pair.CertPath,
		"Subject":  "/CN=" + host,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.exec.Exec(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("certificate generation failed: %w", err)
	}
	if !result.OK() {
		return nil, fmt.Errorf("certificate generation exited %d: %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}

	return pair, nil
}

// Remove deletes the certificate and key files for an identity. Absence
// is tolerated.
func (s *SelfSigned) Remove(ctx context.Context, identity string) error {
	if err := security.ValidateAppName(identity); err != nil {
		return err
	}

	cmd := fmt.Sprintf("sudo -n rm -f %s %s",
		remote.CertPath(identity), remote.KeyPath(identity))
	if _, err := s.exec.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("certificate removal failed: %w", err)
	}
	return nil
}
