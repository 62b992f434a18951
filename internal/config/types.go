package config

// TLSStrategy selects how the reverse proxy terminates TLS
type TLSStrategy int

const (
	// TLSNone serves plain HTTP only
	TLSNone TLSStrategy = iota
	// TLSSelfSigned generates a self-signed certificate on the host
	TLSSelfSigned
	// TLSManaged obtains a certificate from Let's Encrypt via certbot
	TLSManaged
)

func (s TLSStrategy) String() string {
	switch s {
	case TLSSelfSigned:
		return "self-signed"
	case TLSManaged:
		return "letsencrypt"
	default:
		return "none"
	}
}

// BuildMethod selects how the Container Launcher builds and runs the app
type BuildMethod int

const (
	// BuildImage builds a single image from the Dockerfile at the source root
	BuildImage BuildMethod = iota
	// BuildCompose brings up a multi-service compose stack
	BuildCompose
)

func (m BuildMethod) String() string {
	if m == BuildCompose {
		return "compose"
	}
	return "image"
}

// Params holds the full parameter set for one deployment run. It is built
// once during collection and treated as immutable afterwards.
type Params struct {
	// Source
	RepoURL string `yaml:"repo_url"`
	Token   string `yaml:"-"` // never persisted
	Branch  string `yaml:"branch"`

	// Remote host
	User    string `yaml:"user"`
	Host    string `yaml:"host"`
	KeyPath string `yaml:"key_path"`

	// Application
	AppPort int `yaml:"app_port"`

	// TLS
	TLS    TLSStrategy `yaml:"tls"`
	Domain string      `yaml:"domain,omitempty"`
	Email  string      `yaml:"email,omitempty"`

	// Derived from RepoURL during collection
	Identity string `yaml:"-"`
}

// CleanupParams is the minimal identity-and-access set needed to tear a
// deployment down without re-collecting the full parameter set.
type CleanupParams struct {
	User     string
	Host     string
	KeyPath  string
	Identity string
}
