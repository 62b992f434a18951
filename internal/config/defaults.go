package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultsDir is the configuration directory name
	DefaultsDir = "shipward"
	// DefaultsFile is the saved defaults filename
	DefaultsFile = "config.yaml"
)

// Defaults are the last run's answers, used to prefill prompts on the next
// run. The access token is deliberately excluded.
type Defaults struct {
	RepoURL string      `yaml:"repo_url,omitempty"`
	Branch  string      `yaml:"branch,omitempty"`
	User    string      `yaml:"user,omitempty"`
	Host    string      `yaml:"host,omitempty"`
	KeyPath string      `yaml:"key_path,omitempty"`
	AppPort int         `yaml:"app_port,omitempty"`
	TLS     TLSStrategy `yaml:"tls,omitempty"`
	Domain  string      `yaml:"domain,omitempty"`
	Email   string      `yaml:"email,omitempty"`
}

// DefaultsPath returns the saved defaults file location
func DefaultsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, DefaultsDir, DefaultsFile), nil
}

// LoadDefaults loads saved defaults; a missing file yields zero defaults.
func LoadDefaults() (*Defaults, error) {
	path, err := DefaultsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("failed to read defaults: %w", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse defaults: %w", err)
	}
	return &d, nil
}

// SaveDefaults persists the current run's answers for the next run
func SaveDefaults(d *Defaults) error {
	path, err := DefaultsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}

	// 0600: the file names hosts and users even though it never holds the token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write defaults: %w", err)
	}
	return nil
}

// FromParams copies the prompt-relevant fields out of a validated
// parameter set.
func (d *Defaults) FromParams(p *Params) {
	d.RepoURL = p.RepoURL
	d.Branch = p.Branch
	d.User = p.User
	d.Host = p.Host
	d.KeyPath = p.KeyPath
	d.AppPort = p.AppPort
	d.TLS = p.TLS
	d.Domain = p.Domain
	d.Email = p.Email
}
