package security

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	// appNameRegex validates deployment names (DNS-compatible)
	// Allows: lowercase letters, numbers, hyphens (not at start/end)
	// Length: 1-63 characters
	appNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

	// unixUserRegex validates Unix usernames
	// Standard POSIX username rules
	// Length: 1-32 characters
	unixUserRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

	// domainRegex validates fully qualified domain names: dot-separated
	// DNS labels, no wildcards, no trailing dot
	domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

	// hostRegex accepts either a domain label sequence or an IPv4 address
	hostRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]{0,252}[a-zA-Z0-9])?$`)

	// emailRegex is deliberately loose: certbot does its own verification,
	// we only reject values that would break the command line
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// branchRegex validates git branch names we accept from prompts
	branchRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._/-]{0,126}[a-zA-Z0-9])?$`)
)

// ValidateAppName validates a deployment identity.
// Identities must be DNS-compatible: they name Docker containers, images,
// nginx site files and certificate files.
func ValidateAppName(name string) error {
	if name == "" {
		return fmt.Errorf("deployment name cannot be empty")
	}
	if len(name) > 63 {
		return fmt.Errorf("deployment name too long (max 63 characters)")
	}
	if !appNameRegex.MatchString(name) {
		return fmt.Errorf("deployment name must contain only lowercase letters, numbers, and hyphens (not at start/end)")
	}
	return nil
}

// ValidateUnixUser validates the remote login name
func ValidateUnixUser(user string) error {
	if user == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(user) > 32 {
		return fmt.Errorf("username too long (max 32 characters)")
	}
	if !unixUserRegex.MatchString(user) {
		return fmt.Errorf("username must start with a lowercase letter or underscore, followed by lowercase letters, numbers, underscores, or hyphens")
	}
	return nil
}

// ValidateHost validates the remote host address (hostname or IPv4)
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if len(host) > 253 {
		return fmt.Errorf("host too long (max 253 characters)")
	}
	if !hostRegex.MatchString(host) {
		return fmt.Errorf("host contains invalid characters")
	}
	return nil
}

// ValidateDomain validates a literal (non-wildcard) domain name for
// certificate issuance and nginx server_name directives
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if len(domain) > 253 {
		return fmt.Errorf("domain too long (max 253 characters)")
	}
	if strings.Contains(domain, "*") {
		return fmt.Errorf("wildcard domains are not supported")
	}
	if !domainRegex.MatchString(strings.ToLower(domain)) {
		return fmt.Errorf("domain must be a fully qualified name like app.example.com")
	}
	return nil
}

// ValidateEmail validates the certificate contact email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > 254 {
		return fmt.Errorf("email too long (max 254 characters)")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// ValidateBranch validates a git branch name
func ValidateBranch(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if len(branch) > 128 {
		return fmt.Errorf("branch name too long (max 128 characters)")
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain '..'")
	}
	if !branchRegex.MatchString(branch) {
		return fmt.Errorf("branch name contains invalid characters")
	}
	return nil
}

// ValidatePort validates an application listen port
func ValidatePort(port string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return 0, fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port must be between 1 and 65535")
	}
	return n, nil
}

// ValidateRepoURL validates the source repository URL. Only HTTP(S)
// schemes are accepted; validation happens before any clone attempt.
func ValidateRepoURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("repository URL is not valid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("repository URL must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("repository URL has no host")
	}
	if strings.TrimSuffix(u.Path, "/") == "" {
		return fmt.Errorf("repository URL has no path")
	}
	return nil
}

// ShellEscape quotes a value for safe interpolation into a remote shell
// command. Every user-supplied value that ends up in a script must pass
// through here at the point of substitution.
func ShellEscape(s string) string {
	return shellquote.Join(s)
}

// MaskToken replaces every occurrence of the access token in a string
// with a placeholder so credentials never reach the log artifact.
func MaskToken(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "****")
}
