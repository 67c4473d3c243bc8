// Package config holds the per-run deployment settings. A Config is built
// once at process start and never mutated afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/euron-one/medichat-deployer/internal/errors"
)

// Defaults for the MediChat Pro deployment. These keep the zero-argument
// invocation working; flags, env vars, and an optional config file may
// override them.
const (
	DefaultRegion     = "us-east-1"
	DefaultRepository = "medichat-pro"
	DefaultTag        = "latest"
	DefaultDockerfile = "Dockerfile"
	DefaultContextDir = "."
)

// Config describes one deployment run.
type Config struct {
	Region     string `yaml:"region"`
	Repository string `yaml:"repository"`
	Tag        string `yaml:"tag"`
	Dockerfile string `yaml:"dockerfile"`
	ContextDir string `yaml:"context"`
	Verify     Verify `yaml:"verify"`
}

// Verify configures the local smoke test of a built image.
type Verify struct {
	ContainerPort int      `yaml:"container_port"`
	HostPort      int      `yaml:"host_port"`
	HealthPath    string   `yaml:"health_path"`
	Timeout       Duration `yaml:"timeout"`
}

// Duration wraps time.Duration so YAML values can use the usual
// "90s" / "2m" notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Region:     DefaultRegion,
		Repository: DefaultRepository,
		Tag:        DefaultTag,
		Dockerfile: DefaultDockerfile,
		ContextDir: DefaultContextDir,
		Verify: Verify{
			ContainerPort: 8080,
			HostPort:      8080,
			HealthPath:    "/_stcore/health",
			Timeout:       Duration(2 * time.Minute),
		},
	}
}

// Load reads a YAML config file over the compiled-in defaults. Fields
// omitted from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the fields every deployment step depends on.
func (c *Config) Validate() error {
	if c.Region == "" {
		return apperrors.ErrRegionRequired
	}
	if c.Repository == "" {
		return apperrors.ErrRepositoryRequired
	}
	if c.Tag == "" {
		return apperrors.ErrTagRequired
	}
	return nil
}
