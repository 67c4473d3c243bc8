package docker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// RunSpec describes a detached smoke-test container.
type RunSpec struct {
	Image         string
	Name          string
	ContainerPort int
	HostPort      int
}

// RunDetached creates and starts a container with the spec's container port
// published on 127.0.0.1. The caller is responsible for RemoveContainer.
func (c *Client) RunDetached(ctx context.Context, spec RunSpec) (string, error) {
	port, err := nat.NewPort("tcp", strconv.Itoa(spec.ContainerPort))
	if err != nil {
		return "", fmt.Errorf("invalid container port %d: %w", spec.ContainerPort, err)
	}

	config := &container.Config{
		Image: spec.Image,
		ExposedPorts: nat.PortSet{
			port: struct{}{},
		},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{
				{
					HostIP:   "127.0.0.1",
					HostPort: strconv.Itoa(spec.HostPort),
				},
			},
		},
	}

	created, err := c.api.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container from %s: %w", spec.Image, err)
	}

	if err := c.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		// Best effort cleanup of the never-started container.
		_ = c.api.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container %s: %w", created.ID, err)
	}

	return created.ID, nil
}

// RemoveContainer force-removes a container, running or not.
func (c *Client) RemoveContainer(ctx context.Context, id string) error {
	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", id, err)
	}
	return nil
}
