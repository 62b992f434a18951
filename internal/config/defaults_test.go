package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultsRoundTrip(t *testing.T) {
	d := &Defaults{
		RepoURL: "https://github.com/acme/widget.git",
		Branch:  "main",
		User:    "deploy",
		Host:    "203.0.113.10",
		KeyPath: "/home/me/.ssh/id_ed25519",
		AppPort: 3000,
		TLS:     TLSManaged,
		Domain:  "widget.example.com",
		Email:   "ops@example.com",
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	var got Defaults
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != *d {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, *d)
	}
}

func TestDefaultsNeverPersistToken(t *testing.T) {
	p := &Params{
		RepoURL: "https://github.com/acme/widget.git",
		Token:   "super-secret-token",
		Branch:  "main",
	}

	var d Defaults
	d.FromParams(p)

	data, err := yaml.Marshal(&d)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "super-secret-token") {
		t.Errorf("token leaked into defaults file: %s", data)
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	d, err := LoadDefaults()
	if err != nil {
		t.Fatalf("missing defaults file should not error: %v", err)
	}
	if *d != (Defaults{}) {
		t.Errorf("expected zero defaults, got %+v", *d)
	}
}

func TestSaveAndLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := &Defaults{RepoURL: "https://github.com/acme/widget.git", User: "deploy", AppPort: 8000}
	if err := SaveDefaults(want); err != nil {
		t.Fatal(err)
	}

	path, err := DefaultsPath()
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("defaults file mode = %o, want 0600", info.Mode().Perm())
	}
	if filepath.Base(path) != DefaultsFile {
		t.Errorf("unexpected defaults filename %s", path)
	}

	got, err := LoadDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("loaded defaults %+v, want %+v", *got, *want)
	}
}
