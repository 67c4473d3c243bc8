package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/euron-one/medichat-deployer/internal/config"
)

// configFlags are shared by every command. Defaults match the compiled-in
// configuration, so each command works with zero arguments.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for the ECR repository",
			Value:   config.DefaultRegion,
			EnvVars: []string{"AWS_REGION"},
		},
		&cli.StringFlag{
			Name:    "repository",
			Aliases: []string{"r"},
			Usage:   "ECR repository name",
			Value:   config.DefaultRepository,
			EnvVars: []string{"MEDICHAT_REPOSITORY"},
		},
		&cli.StringFlag{
			Name:    "tag",
			Aliases: []string{"t"},
			Usage:   "Image tag",
			Value:   config.DefaultTag,
			EnvVars: []string{"MEDICHAT_TAG"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to an optional YAML config file",
		},
	}
}

// resolveConfig layers the run configuration: compiled-in defaults, then the
// optional YAML file, then any flag the user set explicitly.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("region") {
		cfg.Region = c.String("region")
	}
	if c.IsSet("repository") {
		cfg.Repository = c.String("repository")
	}
	if c.IsSet("tag") {
		cfg.Tag = c.String("tag")
	}
	if c.IsSet("dockerfile") {
		cfg.Dockerfile = c.String("dockerfile")
	}
	if c.IsSet("context") {
		cfg.ContextDir = c.String("context")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
