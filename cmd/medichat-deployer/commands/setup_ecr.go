package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/euron-one/medichat-deployer/internal/di"
	"github.com/euron-one/medichat-deployer/internal/services"
)

func SetupECRCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "setup-ecr",
		Usage: "Create the ECR repository without building or pushing",
		Description: `Create the ECR repository with scan-on-push and AES256 encryption at rest.

A repository that already exists is reported and left untouched. Use this
when the image build runs elsewhere (for example in CI) and only the
repository needs to be provisioned.`,
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			return setupECRAction(c, logger)
		},
	}
}

func setupECRAction(c *cli.Context, logger *zerolog.Logger) error {
	ctx := logger.WithContext(c.Context)

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	container, err := di.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}

	return container.Invoke(func(svc *services.ECRService) error {
		logger.Info().Msgf("Ensuring ECR repository %q in %s...", cfg.Repository, cfg.Region)
		repo, err := svc.EnsureRepository(ctx, cfg.Repository)
		if err != nil {
			return err
		}

		if repo.Created {
			logger.Info().Msgf("  ✓ Created: %s", repo.Name)
		} else {
			logger.Info().Msgf("  ✓ Already exists: %s", repo.Name)
		}
		logger.Info().Msgf("    ARN: %s", repo.ARN)
		logger.Info().Msgf("    URI: %s", repo.URI)
		logger.Info().Msg("")
		logger.Info().Msg("Features enabled:")
		logger.Info().Msg("  ✓ Scan on push")
		logger.Info().Msg("  ✓ AES256 encryption at rest")
		logger.Info().Msg("")
		logger.Info().Msg("To push images manually:")
		logger.Info().Msgf("  1. Authenticate: aws ecr get-login-password --region %s | docker login --username AWS --password-stdin %s", cfg.Region, registryHostOf(repo))
		logger.Info().Msgf("  2. Tag image: docker tag %s:%s %s", cfg.Repository, cfg.Tag, repo.URI+":"+cfg.Tag)
		logger.Info().Msgf("  3. Push image: docker push %s", repo.URI+":"+cfg.Tag)
		return nil
	})
}

// registryHostOf strips the repository path from the URI, leaving the
// registry hostname used for docker login.
func registryHostOf(repo *services.RepositoryInfo) string {
	host, _, _ := strings.Cut(repo.URI, "/")
	return host
}
