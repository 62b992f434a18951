package config

import (
	"fmt"
	"os"

	"github.com/shipward/shipward/internal/security"
)

// Validate checks the full parameter set before any remote action.
// TLS-strategy-specific fields must be present exactly when that strategy
// is selected.
func (p *Params) Validate() error {
	if err := security.ValidateRepoURL(p.RepoURL); err != nil {
		return fmt.Errorf("repository URL: %w", err)
	}
	if p.Token == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	if err := security.ValidateBranch(p.Branch); err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	if err := security.ValidateUnixUser(p.User); err != nil {
		return fmt.Errorf("remote user: %w", err)
	}
	if err := security.ValidateHost(p.Host); err != nil {
		return fmt.Errorf("remote host: %w", err)
	}
	if err := validateKeyPath(p.KeyPath); err != nil {
		return err
	}
	if p.AppPort < 1 || p.AppPort > 65535 {
		return fmt.Errorf("application port %d out of range", p.AppPort)
	}
	if err := security.ValidateAppName(p.Identity); err != nil {
		return fmt.Errorf("deployment name: %w", err)
	}

	switch p.TLS {
	case TLSNone, TLSSelfSigned:
		if p.Domain != "" || p.Email != "" {
			return fmt.Errorf("domain and email only apply to the letsencrypt strategy")
		}
	case TLSManaged:
		if err := security.ValidateDomain(p.Domain); err != nil {
			return fmt.Errorf("domain: %w", err)
		}
		if err := security.ValidateEmail(p.Email); err != nil {
			return fmt.Errorf("email: %w", err)
		}
	default:
		return fmt.Errorf("unknown TLS strategy")
	}

	return nil
}

// Validate checks the minimal cleanup parameter set
func (p *CleanupParams) Validate() error {
	if err := security.ValidateUnixUser(p.User); err != nil {
		return fmt.Errorf("remote user: %w", err)
	}
	if err := security.ValidateHost(p.Host); err != nil {
		return fmt.Errorf("remote host: %w", err)
	}
	if err := validateKeyPath(p.KeyPath); err != nil {
		return err
	}
	if err := security.ValidateAppName(p.Identity); err != nil {
		return fmt.Errorf("deployment name: %w", err)
	}
	return nil
}

func validateKeyPath(path string) error {
	if path == "" {
		return fmt.Errorf("SSH key path cannot be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("SSH key file not found at %s", path)
	}
	return nil
}
