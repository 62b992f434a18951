package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/security"
)

var tlsOptions = []string{
	"none (plain HTTP)",
	"self-signed certificate",
	"letsencrypt certificate (requires a public domain)",
}

// collectParams gathers the full forward-deployment parameter set. Every
// answer is validated at the prompt, before any remote action; the token
// is never persisted.
func collectParams(p *Prompter, defaults *config.Defaults) (*config.Params, error) {
	params := &config.Params{}

	repoURL, err := p.String("Repository URL", defaults.RepoURL)
	if err != nil {
		return nil, err
	}
	if err := security.ValidateRepoURL(repoURL); err != nil {
		return nil, err
	}
	params.RepoURL = repoURL

	token := os.Getenv("SHIPWARD_TOKEN")
	if token == "" {
		token, err = p.Secret("Access token")
		if err != nil {
			return nil, err
		}
	}
	if token == "" {
		return nil, fmt.Errorf("access token cannot be empty (or set SHIPWARD_TOKEN)")
	}
	params.Token = token

	branch, err := p.String("Branch", orDefault(defaults.Branch, "main"))
	if err != nil {
		return nil, err
	}
	if err := security.ValidateBranch(branch); err != nil {
		return nil, err
	}
	params.Branch = branch

	user, err := p.String("Remote user", defaults.User)
	if err != nil {
		return nil, err
	}
	if err := security.ValidateUnixUser(user); err != nil {
		return nil, err
	}
	params.User = user

	host, err := p.String("Remote host", defaults.Host)
	if err != nil {
		return nil, err
	}
	if err := security.ValidateHost(host); err != nil {
		return nil, err
	}
	params.Host = host

	keyPath, err := p.String("SSH key file", orDefault(defaults.KeyPath, defaultKeyPath()))
	if err != nil {
		return nil, err
	}
	params.KeyPath = keyPath

	portDef := ""
	if defaults.AppPort > 0 {
		portDef = strconv.Itoa(defaults.AppPort)
	}
	portAnswer, err := p.String("Application port", orDefault(portDef, "3000"))
	if err != nil {
		return nil, err
	}
	port, err := security.ValidatePort(portAnswer)
	if err != nil {
		return nil, err
	}
	params.AppPort = port

	choice, err := p.Select("TLS strategy:", tlsOptions, int(defaults.TLS))
	if err != nil {
		return nil, err
	}
	params.TLS = config.TLSStrategy(choice)

	if params.TLS == config.TLSManaged {
		domain, err := p.String("Domain name", defaults.Domain)
		if err != nil {
			return nil, err
		}
		if err := security.ValidateDomain(domain); err != nil {
			return nil, err
		}
		params.Domain = domain

		email, err := p.String("Contact email", defaults.Email)
		if err != nil {
			return nil, err
		}
		if err := security.ValidateEmail(email); err != nil {
			return nil, err
		}
		params.Email = email
	}

	identity, err := config.DeriveIdentity(params.RepoURL)
	if err != nil {
		return nil, err
	}
	params.Identity = identity

	return params, params.Validate()
}

// paramsFromDefaults builds the parameter set without prompting (--yes)
func paramsFromDefaults(defaults *config.Defaults) (*config.Params, error) {
	token := os.Getenv("SHIPWARD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("SHIPWARD_TOKEN must be set in non-interactive mode")
	}

	params := &config.Params{
		RepoURL: defaults.RepoURL,
		Token:   token,
		Branch:  orDefault(defaults.Branch, "main"),
		User:    defaults.User,
		Host:    defaults.Host,
		KeyPath: defaults.KeyPath,
		AppPort: defaults.AppPort,
		TLS:     defaults.TLS,
		Domain:  defaults.Domain,
		Email:   defaults.Email,
	}

	identity, err := config.DeriveIdentity(params.RepoURL)
	if err != nil {
		return nil, err
	}
	params.Identity = identity

	return params, params.Validate()
}

// collectCleanupParams gathers the minimal identity-and-access set
func collectCleanupParams(p *Prompter, defaults *config.Defaults) (*config.CleanupParams, error) {
	params := &config.CleanupParams{}

	user, err := p.String("Remote user", defaults.User)
	if err != nil {
		return nil, err
	}
	params.User = user

	host, err := p.String("Remote host", defaults.Host)
	if err != nil {
		return nil, err
	}
	params.Host = host

	keyPath, err := p.String("SSH key file", orDefault(defaults.KeyPath, defaultKeyPath()))
	if err != nil {
		return nil, err
	}
	params.KeyPath = keyPath

	identityDef := ""
	if defaults.RepoURL != "" {
		if id, err := config.DeriveIdentity(defaults.RepoURL); err == nil {
			identityDef = id
		}
	}
	identity, err := p.String("Deployment name", identityDef)
	if err != nil {
		return nil, err
	}
	params.Identity = identity

	return params, params.Validate()
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func defaultKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.ssh/id_ed25519"
}
