package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/euron-one/medichat-deployer/cmd/medichat-deployer/commands"
	"github.com/euron-one/medichat-deployer/internal/di"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "medichat-deployer",
		Usage: "Build and ship the MediChat Pro container image to Amazon ECR",
		Description: `Deployment automation for the MediChat Pro web application.

This tool provides commands for:
  - Running the full build, tag, and push pipeline against ECR
  - Creating the ECR repository on its own
  - Smoke-testing a locally built image before it ships

Invoked with no arguments it runs the full deploy pipeline with the
compiled-in MediChat Pro defaults.`,
		DefaultCommand: "deploy",
		Commands: []*cli.Command{
			commands.DeployCommand(&logger),
			commands.SetupECRCommand(&logger),
			commands.VerifyCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
