// Package git wraps the local git binary for fetching deployment sources.
// The version-control client is an external collaborator: shipward only
// needs clone and update with pass/fail outcomes.
package git

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/shipward/shipward/internal/security"
)

// Source describes one repository to fetch
type Source struct {
	RepoURL string
	Token   string
	Branch  string
}

// AuthURL returns the repository URL with the access token injected as
// basic-auth userinfo. Never log the result unmasked.
func (s *Source) AuthURL() (string, error) {
	u, err := url.Parse(s.RepoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}
	u.User = url.User(s.Token)
	return u.String(), nil
}

// Ensure makes dest contain an up-to-date checkout of the source branch.
// An existing clone is updated in place with fetch and reset so repeated
// runs converge; a fresh directory gets a clone. URL validation happens
// before any network call.
func Ensure(ctx context.Context, src *Source, dest string, logf func(string, ...interface{})) error {
	if err := security.ValidateRepoURL(src.RepoURL); err != nil {
		return err
	}
	if err := security.ValidateBranch(src.Branch); err != nil {
		return err
	}

	authURL, err := src.AuthURL()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		logf("Updating existing clone in %s", dest)
		steps := [][]string{
			{"git", "-C", dest, "remote", "set-url", "origin", authURL},
			{"git", "-C", dest, "fetch", "origin", src.Branch},
			{"git", "-C", dest, "checkout", src.Branch},
			{"git", "-C", dest, "reset", "--hard", "origin/" + src.Branch},
		}
		for _, args := range steps {
			if err := run(ctx, src.Token, args, logf); err != nil {
				return err
			}
		}
		return nil
	}

	logf("Cloning %s (branch %s)", src.RepoURL, src.Branch)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	return run(ctx, src.Token, []string{"git", "clone", "--branch", src.Branch, authURL, dest}, logf)
}

func run(ctx context.Context, token string, args []string, logf func(string, ...interface{})) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		masked := security.MaskToken(fmt.Sprintf("%v", args), token)
		return fmt.Errorf("git command %s failed: %s",
			masked, security.MaskToken(string(out), token))
	}
	if len(out) > 0 {
		logf("%s", security.MaskToken(string(out), token))
	}
	return nil
}
