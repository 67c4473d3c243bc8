package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/euron-one/medichat-deployer/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "medichat-pro", cfg.Repository)
	assert.Equal(t, "latest", cfg.Tag)
	assert.Equal(t, "Dockerfile", cfg.Dockerfile)
	assert.Equal(t, ".", cfg.ContextDir)
	assert.Equal(t, 8080, cfg.Verify.ContainerPort)
	assert.Equal(t, "/_stcore/health", cfg.Verify.HealthPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "deploy.yaml")
		content := `
region: eu-west-1
tag: v2.0.1
verify:
  host_port: 9090
  timeout: 30s
`
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "eu-west-1", cfg.Region)
		assert.Equal(t, "v2.0.1", cfg.Tag)
		// Unset fields keep their defaults.
		assert.Equal(t, "medichat-pro", cfg.Repository)
		assert.Equal(t, 8080, cfg.Verify.ContainerPort)
		assert.Equal(t, 9090, cfg.Verify.HostPort)
		assert.Equal(t, 30*time.Second, cfg.Verify.Timeout.Std())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "deploy.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("region: [unclosed"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "deploy.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("verify:\n  timeout: soon\n"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty region",
			mutate:  func(c *Config) { c.Region = "" },
			wantErr: apperrors.ErrRegionRequired,
		},
		{
			name:    "empty repository",
			mutate:  func(c *Config) { c.Repository = "" },
			wantErr: apperrors.ErrRepositoryRequired,
		},
		{
			name:    "empty tag",
			mutate:  func(c *Config) { c.Tag = "" },
			wantErr: apperrors.ErrTagRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
