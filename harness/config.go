package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ConfigFile is the project file written by `splatgo init`.
const ConfigFile = "splat.yaml"

// Suite points at a git repository holding conformance cases.
type Suite struct {
	URL string `yaml:"url"`
	// Ref is a branch, tag or commit. Empty means the remote's HEAD.
	Ref string `yaml:"ref,omitempty"`
	// Dir is where the suite is checked out.
	Dir string `yaml:"dir,omitempty"`
}

type Config struct {
	Tests        string `yaml:"tests"`
	Verbose      bool   `yaml:"verbose"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	Suite        *Suite `yaml:"suite,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Tests:   "tests",
		Verbose: true,
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields the
// defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error reading %s: %w", path, err)
	}
	if cfg.MaxCallDepth < 0 {
		return cfg, fmt.Errorf("error reading %s: max_call_depth must not be negative", path)
	}
	if cfg.Suite != nil && cfg.Suite.Dir == "" {
		cfg.Suite.Dir = cfg.Tests
	}
	return cfg, nil
}

func WriteConfig(path string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	return nil
}
