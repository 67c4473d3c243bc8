// Package docker wraps the Docker Engine SDK for the image operations the
// deployment pipeline performs: login, build, tag, push, and the local
// smoke-test container used by verify.
package docker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/client"
)

// Client wraps the Docker SDK client. We wrap rather than embed to keep the
// exposed surface down to what the deployer actually calls.
type Client struct {
	api *client.Client

	// out receives the daemon's build/push progress stream.
	out io.Writer
}

// NewClient connects to the local Docker daemon using the standard
// environment settings (DOCKER_HOST et al.) with API version negotiation,
// so the binary works against any reasonably recent daemon.
func NewClient() (*Client, error) {
	api, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{api: api, out: os.Stderr}, nil
}

// Ping verifies the daemon is reachable before any step runs.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon is not reachable: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.api.Close()
}
