package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"

	"github.com/euron-one/medichat-deployer/internal/deployer"
	"github.com/euron-one/medichat-deployer/internal/di"
	"github.com/euron-one/medichat-deployer/internal/docker"
)

func VerifyCommand(logger *zerolog.Logger) *cli.Command {
	flags := append(configFlags(),
		&cli.IntFlag{
			Name:  "host-port",
			Usage: "Host port to publish the container's port 8080 on",
			Value: 8080,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "How long to wait for the health endpoint",
			Value: 2 * time.Minute,
		},
	)

	return &cli.Command{
		Name:  "verify",
		Usage: "Smoke-test a locally built image against its health endpoint",
		Description: `Run the locally built {repository}:{tag} image in a throwaway container,
poll its HTTP health endpoint until it answers 200, then remove the
container. Run this after 'deploy' (or a plain docker build) to confirm the
image actually boots before relying on it.`,
		Flags: flags,
		Action: func(c *cli.Context) error {
			return verifyAction(c, logger)
		},
	}
}

func verifyAction(c *cli.Context, logger *zerolog.Logger) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("host-port") {
		cfg.Verify.HostPort = c.Int("host-port")
	}

	timeout := cfg.Verify.Timeout.Std()
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}

	container, err := di.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}

	return container.Invoke(func(client *docker.Client) error {
		ctx := logger.WithContext(c.Context)

		if err := client.Ping(ctx); err != nil {
			return err
		}

		imageRef := deployer.LocalReference(cfg.Repository, cfg.Tag)
		spec := docker.RunSpec{
			Image:         imageRef,
			Name:          fmt.Sprintf("%s-verify-%s", cfg.Repository, ksuid.New().String()),
			ContainerPort: cfg.Verify.ContainerPort,
			HostPort:      cfg.Verify.HostPort,
		}

		logger.Info().Msgf("Starting %s on 127.0.0.1:%d...", imageRef, spec.HostPort)
		containerID, err := client.RunDetached(ctx, spec)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.RemoveContainer(context.Background(), containerID); err != nil {
				logger.Warn().Err(err).Msg("Failed to remove verify container")
			}
		}()

		healthURL := fmt.Sprintf("http://127.0.0.1:%d%s", spec.HostPort, cfg.Verify.HealthPath)
		logger.Info().Msgf("Waiting for %s (timeout %s)...", healthURL, timeout)

		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := docker.WaitForHealthy(waitCtx, http.DefaultClient, healthURL, 2*time.Second); err != nil {
			return err
		}

		logger.Info().Msgf("  ✓ %s is healthy", imageRef)
		return nil
	})
}
