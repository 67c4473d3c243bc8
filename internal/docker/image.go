package docker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"

	"github.com/euron-one/medichat-deployer/internal/services"
)

// BuildSpec describes one image build.
type BuildSpec struct {
	// ContextDir is the build context directory sent to the daemon.
	ContextDir string
	// Dockerfile is the path of the Dockerfile relative to ContextDir.
	Dockerfile string
	// Tags are applied to the resulting image.
	Tags []string
}

// Login authenticates the daemon against the registry. ECR tokens are
// short-lived, so this runs on every deployment.
func (c *Client) Login(ctx context.Context, auth services.RegistryAuth) error {
	_, err := c.api.RegistryLogin(ctx, registry.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		ServerAddress: auth.ServerAddress,
	})
	if err != nil {
		return fmt.Errorf("registry login to %s failed: %w", auth.ServerAddress, err)
	}
	return nil
}

// Build tars the context directory and asks the daemon to build it. The
// daemon's progress stream is relayed to c.out; a failed step inside the
// build surfaces as an error.
func (c *Client) Build(ctx context.Context, spec BuildSpec) error {
	excludes, err := readDockerignore(spec.ContextDir)
	if err != nil {
		return err
	}

	buildContext, err := archive.TarWithOptions(spec.ContextDir, &archive.TarOptions{
		ExcludePatterns: excludes,
	})
	if err != nil {
		return fmt.Errorf("failed to tar build context %q: %w", spec.ContextDir, err)
	}
	defer buildContext.Close()

	response, err := c.api.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:       spec.Tags,
		Dockerfile: spec.Dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	defer response.Body.Close()

	return c.streamDaemonMessages(response.Body)
}

// Tag applies target as an additional reference on the source image.
func (c *Client) Tag(ctx context.Context, source, target string) error {
	if err := c.api.ImageTag(ctx, source, target); err != nil {
		return fmt.Errorf("failed to tag %s as %s: %w", source, target, err)
	}
	return nil
}

// Push uploads ref to its registry using the supplied credentials.
func (c *Client) Push(ctx context.Context, ref string, auth services.RegistryAuth) error {
	encoded, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		ServerAddress: auth.ServerAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to encode registry credentials: %w", err)
	}

	response, err := c.api.ImagePush(ctx, ref, image.PushOptions{
		RegistryAuth: encoded,
	})
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", ref, err)
	}
	defer response.Close()

	return c.streamDaemonMessages(response)
}

// streamDaemonMessages relays the daemon's JSON progress stream and turns an
// in-stream error message into a Go error.
func (c *Client) streamDaemonMessages(r io.Reader) error {
	if err := jsonmessage.DisplayJSONMessagesStream(r, c.out, 0, false, nil); err != nil {
		var jsonErr *jsonmessage.JSONError
		if errors.As(err, &jsonErr) {
			return fmt.Errorf("docker daemon reported: %s", jsonErr.Message)
		}
		return err
	}
	return nil
}

// readDockerignore loads exclude patterns from the context's .dockerignore,
// if present. Blank lines and comments are skipped.
func readDockerignore(contextDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(contextDir, ".dockerignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .dockerignore: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read .dockerignore: %w", err)
	}
	return patterns, nil
}
