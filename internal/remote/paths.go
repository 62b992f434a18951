// Package remote defines the fixed filesystem layout shipward owns on the
// target host and the script templates executed there.
package remote

import "path"

// Reverse proxy and certificate locations (Debian/Ubuntu layout)
const (
	SitesAvailableDir = "/etc/nginx/sites-available"
	SitesEnabledDir   = "/etc/nginx/sites-enabled"
	CertDir           = "/etc/ssl/certs"
	KeyDir            = "/etc/ssl/private"
)

// AppsDir returns the per-login application directory
func AppsDir(user string) string {
	if user == "root" {
		return "/root/apps"
	}
	return path.Join("/home", user, "apps")
}

// AppDir returns the project tree location for a deployment
func AppDir(user, identity string) string {
	return path.Join(AppsDir(user), identity)
}

// SitePath returns the nginx site definition path for a deployment
func SitePath(identity string) string {
	return path.Join(SitesAvailableDir, identity)
}

// SiteLinkPath returns the enabled-site symlink path for a deployment
func SiteLinkPath(identity string) string {
	return path.Join(SitesEnabledDir, identity)
}

// CertPath returns the certificate location for a self-signed deployment
func CertPath(identity string) string {
	return path.Join(CertDir, identity+".crt")
}

// KeyPath returns the private key location for a self-signed deployment
func KeyPath(identity string) string {
	return path.Join(KeyDir, identity+".key")
}
