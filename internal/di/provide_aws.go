package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/euron-one/medichat-deployer/internal/config"
	"github.com/euron-one/medichat-deployer/internal/deployer"
	"github.com/euron-one/medichat-deployer/internal/docker"
	"github.com/euron-one/medichat-deployer/internal/services"
)

func ProvideContext() context.Context {
	return context.Background()
}

// ProvideAWSConfig loads the ambient AWS credentials scoped to the
// configured deployment region.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
}

func ProvideDockerClient() (*docker.Client, error) {
	return docker.NewClient()
}

func ProvideSequencer(registry *services.ECRService, images *docker.Client, cfg *config.Config) *deployer.Sequencer {
	return deployer.New(registry, images, cfg)
}
