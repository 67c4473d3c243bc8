// Package deployer runs the fixed five-step deployment pipeline: resolve
// the caller's account, ensure the ECR repository, authenticate the local
// daemon, build the image, then re-tag and push it. The steps are strictly
// sequential; the first fatal failure aborts the run.
package deployer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/euron-one/medichat-deployer/internal/config"
	"github.com/euron-one/medichat-deployer/internal/docker"
	"github.com/euron-one/medichat-deployer/internal/services"
)

// Registry is the registry-side surface of the pipeline (steps 1-3).
type Registry interface {
	ResolveAccountID(ctx context.Context) (string, error)
	EnsureRepository(ctx context.Context, name string) (*services.RepositoryInfo, error)
	AuthorizationToken(ctx context.Context) (services.RegistryAuth, error)
}

// Images is the daemon-side surface of the pipeline (steps 3-5).
type Images interface {
	Login(ctx context.Context, auth services.RegistryAuth) error
	Build(ctx context.Context, spec docker.BuildSpec) error
	Tag(ctx context.Context, source, target string) error
	Push(ctx context.Context, ref string, auth services.RegistryAuth) error
}

// Sequencer orchestrates one deployment run.
type Sequencer struct {
	registry Registry
	images   Images
	cfg      *config.Config
}

// New creates a Sequencer over the given registry and image clients.
func New(registry Registry, images Images, cfg *config.Config) *Sequencer {
	return &Sequencer{
		registry: registry,
		images:   images,
		cfg:      cfg,
	}
}

// Result describes a completed deployment run.
type Result struct {
	RunID             string
	AccountID         string
	ImageURI          string
	RepositoryCreated bool
}

// Run executes the five steps in order. A repository that already exists in
// step 2 is tolerated; every other failure aborts immediately and no later
// step executes.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	runID := ksuid.New().String()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()

	// Step 1: resolve identity
	logger.Info().Msg("Resolving caller identity...")
	accountID, err := s.registry.ResolveAccountID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	logger.Info().Msgf("  ✓ Account: %s", accountID)

	// Step 2: ensure the repository exists
	logger.Info().Msgf("Ensuring ECR repository %q...", s.cfg.Repository)
	repo, err := s.registry.EnsureRepository(ctx, s.cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure repository %q: %w", s.cfg.Repository, err)
	}
	if repo.Created {
		logger.Info().Msgf("  ✓ Created: %s", repo.URI)
	} else {
		logger.Warn().Msgf("  Repository already exists, continuing: %s", repo.URI)
	}

	// Step 3: authenticate the daemon to the registry
	logger.Info().Msg("Authenticating Docker daemon to ECR...")
	auth, err := s.registry.AuthorizationToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain registry credentials: %w", err)
	}
	if err := s.images.Login(ctx, auth); err != nil {
		return nil, fmt.Errorf("docker login failed: %w", err)
	}
	logger.Info().Msgf("  ✓ Logged in to %s", auth.ServerAddress)

	// Step 4: build the image
	localRef := LocalReference(s.cfg.Repository, s.cfg.Tag)
	logger.Info().Msgf("Building image %s...", localRef)
	buildSpec := docker.BuildSpec{
		ContextDir: s.cfg.ContextDir,
		Dockerfile: s.cfg.Dockerfile,
		Tags:       []string{localRef},
	}
	if err := s.images.Build(ctx, buildSpec); err != nil {
		return nil, fmt.Errorf("image build failed: %w", err)
	}
	logger.Info().Msg("  ✓ Build complete")

	// Step 5: re-tag and push
	imageURI := ImageURI(accountID, s.cfg.Region, s.cfg.Repository, s.cfg.Tag)
	logger.Info().Msgf("Tagging and pushing %s...", imageURI)
	if err := s.images.Tag(ctx, localRef, imageURI); err != nil {
		return nil, fmt.Errorf("failed to tag image: %w", err)
	}
	if err := s.images.Push(ctx, imageURI, auth); err != nil {
		return nil, fmt.Errorf("failed to push image: %w", err)
	}
	logger.Info().Msg("  ✓ Push complete")

	return &Result{
		RunID:             runID,
		AccountID:         accountID,
		ImageURI:          imageURI,
		RepositoryCreated: repo.Created,
	}, nil
}
