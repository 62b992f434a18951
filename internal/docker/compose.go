package docker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/shipward/shipward/internal/config"
)

// composeFileNames are checked at the source root, in docker's own lookup
// order, to decide the build method.
var composeFileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// DetectBuildMethod inspects the source root: a compose manifest selects
// the compose branch, otherwise the single-image branch is used.
func DetectBuildMethod(localRoot string) (config.BuildMethod, string) {
	for _, name := range composeFileNames {
		path := filepath.Join(localRoot, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return config.BuildCompose, path
		}
	}
	return config.BuildImage, ""
}

type composeManifest struct {
	Services map[string]yaml.Node `yaml:"services"`
}

// ListServices returns the service names declared in a compose manifest,
// sorted for stable logging.
func ListServices(manifestPath string) ([]string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose manifest: %w", err)
	}

	var m composeManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse compose manifest: %w", err)
	}
	if len(m.Services) == 0 {
		return nil, fmt.Errorf("compose manifest declares no services")
	}

	names := make([]string, 0, len(m.Services))
	for name := range m.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
