package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// jsirc is the shape of an optional .jsirc.yaml config file: predefined
// global bindings and a module search root, parsed with goccy/go-yaml for
// structured host configuration.
type jsirc struct {
	Globals    map[string]any `yaml:"globals"`
	ModuleRoot string         `yaml:"moduleRoot"`
}

// loadConfig reads path (if non-empty and present) and decodes it as a
// .jsirc.yaml document. A missing path is not an error: the CLI runs with
// no predefined globals and no module root configured.
func loadConfig(path string) (*jsirc, error) {
	if path == "" {
		return &jsirc{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &jsirc{}, nil
		}
		return nil, err
	}
	var cfg jsirc
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
