package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/euron-one/medichat-deployer/internal/deployer"
	"github.com/euron-one/medichat-deployer/internal/di"
)

func DeployCommand(logger *zerolog.Logger) *cli.Command {
	flags := append(configFlags(),
		&cli.StringFlag{
			Name:  "dockerfile",
			Usage: "Dockerfile path, relative to the build context",
			Value: "Dockerfile",
		},
		&cli.StringFlag{
			Name:  "context",
			Usage: "Build context directory",
			Value: ".",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Show what would be done without touching AWS or Docker",
		},
	)

	return &cli.Command{
		Name:  "deploy",
		Usage: "Build, tag, and push the MediChat Pro image to ECR",
		Description: `Run the full deployment pipeline:

  1. Resolve the caller's AWS account
  2. Ensure the ECR repository exists (scan-on-push, AES256 encryption)
  3. Authenticate the local Docker daemon to ECR
  4. Build the image from the current context
  5. Re-tag with the registry URI and push

AWS credentials come from the ambient environment (profile, env vars, or
instance role). With no arguments the compiled-in MediChat Pro defaults
apply: us-east-1 / medichat-pro / latest.`,
		Flags: flags,
		Action: func(c *cli.Context) error {
			return deployAction(c, logger)
		},
	}
}

func deployAction(c *cli.Context, logger *zerolog.Logger) error {
	ctx := logger.WithContext(c.Context)

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		logger.Info().Msg("DRY RUN: Would run the deployment pipeline:")
		logger.Info().Msgf("  1. Resolve caller identity (region: %s)", cfg.Region)
		logger.Info().Msgf("  2. Ensure ECR repository %q with scan-on-push and AES256 encryption", cfg.Repository)
		logger.Info().Msg("  3. Authenticate the Docker daemon to ECR")
		logger.Info().Msgf("  4. Build %s:%s from %s (dockerfile: %s)", cfg.Repository, cfg.Tag, cfg.ContextDir, cfg.Dockerfile)
		logger.Info().Msgf("  5. Tag with <account>.dkr.ecr.%s.amazonaws.com/%s:%s and push", cfg.Region, cfg.Repository, cfg.Tag)
		return nil
	}

	container, err := di.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}

	return container.Invoke(func(seq *deployer.Sequencer) error {
		result, err := seq.Run(ctx)
		if err != nil {
			return err
		}

		// Summary
		logger.Info().Msg("")
		logger.Info().Msg("========================================")
		logger.Info().Msg("Deployment Complete!")
		logger.Info().Msg("========================================")
		logger.Info().Msgf("Region:     %s", cfg.Region)
		logger.Info().Msgf("Account:    %s", result.AccountID)
		logger.Info().Msgf("Image URI:  %s", result.ImageURI)
		logger.Info().Msg("")
		logger.Info().Msg("Next steps:")
		logger.Info().Msg("  1. Open a managed container hosting service (App Runner, ECS, or EKS)")
		logger.Info().Msg("  2. Create a service from the image reference above, port 8080")
		logger.Info().Msgf("  3. Point the health check at %s", cfg.Verify.HealthPath)
		return nil
	})
}
