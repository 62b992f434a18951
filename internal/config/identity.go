package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var identityClean = regexp.MustCompile(`[^a-z0-9-]+`)

// DeriveIdentity computes the deployment identity from a repository URL.
// The identity is the single correlation key shared by containers, images,
// nginx site files and certificate files, so it must be deterministic and
// both DNS- and filesystem-safe.
func DeriveIdentity(repoURL string) (string, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("cannot derive deployment name: %w", err)
	}

	base := strings.TrimSuffix(u.Path, "/")
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".git")

	name := strings.ToLower(base)
	name = identityClean.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		return "", fmt.Errorf("cannot derive deployment name from %q", repoURL)
	}
	if len(name) > 63 {
		name = strings.Trim(name[:63], "-")
	}
	return name, nil
}
