package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shipward/shipward/internal/config"
)

func tempKeyFile(t *testing.T) string {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(keyPath, []byte("fake key"), 0600); err != nil {
		t.Fatal(err)
	}
	return keyPath
}

func TestCollectParamsPlainHTTP(t *testing.T) {
	t.Setenv("SHIPWARD_TOKEN", "ghp_token")
	keyPath := tempKeyFile(t)

	answers := strings.Join([]string{
		"https://github.com/acme/widget.git", // repository URL
		"main",                               // branch
		"deploy",                             // remote user
		"203.0.113.10",                       // remote host
		keyPath,                              // ssh key
		"3000",                               // application port
		"1",                                  // TLS: none
	}, "\n") + "\n"

	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader(answers), &out)

	params, err := collectParams(p, &config.Defaults{})
	if err != nil {
		t.Fatal(err)
	}

	if params.Identity != "widget" {
		t.Errorf("Identity = %q, want %q", params.Identity, "widget")
	}
	if params.TLS != config.TLSNone {
		t.Errorf("TLS = %v, want TLSNone", params.TLS)
	}
	if params.Token != "ghp_token" {
		t.Errorf("token not taken from environment")
	}
	if params.Domain != "" || params.Email != "" {
		t.Errorf("strategy-specific fields set without the strategy: %+v", params)
	}
}

func TestCollectParamsManagedTLSPromptsDomainAndEmail(t *testing.T) {
	t.Setenv("SHIPWARD_TOKEN", "ghp_token")
	keyPath := tempKeyFile(t)

	answers := strings.Join([]string{
		"https://github.com/acme/widget.git",
		"main",
		"deploy",
		"203.0.113.10",
		keyPath,
		"3000",
		"3", // TLS: letsencrypt
		"widget.example.com",
		"ops@example.com",
	}, "\n") + "\n"

	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader(answers), &out)

	params, err := collectParams(p, &config.Defaults{})
	if err != nil {
		t.Fatal(err)
	}

	if params.TLS != config.TLSManaged {
		t.Errorf("TLS = %v, want TLSManaged", params.TLS)
	}
	if params.Domain != "widget.example.com" || params.Email != "ops@example.com" {
		t.Errorf("strategy fields = %q / %q", params.Domain, params.Email)
	}
}

func TestCollectParamsRejectsBadURLImmediately(t *testing.T) {
	t.Setenv("SHIPWARD_TOKEN", "ghp_token")

	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader("git@github.com:acme/widget.git\n"), &out)

	if _, err := collectParams(p, &config.Defaults{}); err == nil {
		t.Fatal("expected rejection of non-HTTP repository URL")
	}
}

func TestParamsFromDefaults(t *testing.T) {
	t.Setenv("SHIPWARD_TOKEN", "ghp_token")
	keyPath := tempKeyFile(t)

	defaults := &config.Defaults{
		RepoURL: "https://github.com/acme/widget.git",
		Branch:  "main",
		User:    "deploy",
		Host:    "203.0.113.10",
		KeyPath: keyPath,
		AppPort: 3000,
		TLS:     config.TLSNone,
	}

	params, err := paramsFromDefaults(defaults)
	if err != nil {
		t.Fatal(err)
	}
	if params.Identity != "widget" {
		t.Errorf("Identity = %q", params.Identity)
	}
}

func TestParamsFromDefaultsRequiresToken(t *testing.T) {
	t.Setenv("SHIPWARD_TOKEN", "")

	if _, err := paramsFromDefaults(&config.Defaults{}); err == nil {
		t.Fatal("expected error without SHIPWARD_TOKEN")
	}
}

func TestCollectCleanupParams(t *testing.T) {
	keyPath := tempKeyFile(t)

	answers := strings.Join([]string{
		"deploy",
		"203.0.113.10",
		keyPath,
		"widget",
	}, "\n") + "\n"

	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader(answers), &out)

	params, err := collectCleanupParams(p, &config.Defaults{})
	if err != nil {
		t.Fatal(err)
	}
	if params.Identity != "widget" {
		t.Errorf("Identity = %q", params.Identity)
	}
}

func TestCollectCleanupParamsDerivesIdentityDefault(t *testing.T) {
	keyPath := tempKeyFile(t)

	// Accept the derived default for the deployment name.
	answers := strings.Join([]string{"deploy", "203.0.113.10", keyPath, ""}, "\n") + "\n"

	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader(answers), &out)

	defaults := &config.Defaults{RepoURL: "https://github.com/acme/widget.git"}
	params, err := collectCleanupParams(p, defaults)
	if err != nil {
		t.Fatal(err)
	}
	if params.Identity != "widget" {
		t.Errorf("Identity = %q, want derived default %q", params.Identity, "widget")
	}
	if !strings.Contains(out.String(), "[widget]") {
		t.Errorf("derived identity not offered as default: %q", out.String())
	}
}
