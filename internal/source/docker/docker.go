// Package docker implements the container log source on the Docker Engine API.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/summerlog/summerlog/internal/source"
)

func init() {
	source.Register("docker", func(cfg source.Config) (source.Source, error) {
		cli, err := newEngineClient(cfg.Host)
		if err != nil {
			return nil, err
		}
		return &Source{client: cli, allowList: cfg.AllowList}, nil
	})
}

// engineClient is the slice of the Docker SDK this source needs. Tests
// substitute a fake.
type engineClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
}

func newEngineClient(host string) (engineClient, error) {
	opts := []dockerclient.Opt{
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, dockerclient.WithHost(host))
	}
	cli, err := dockerclient.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return cli, nil
}

// Source lists running containers and fetches their logs over the Engine API.
type Source struct {
	client    engineClient
	allowList []string
}

// List returns the container names to collect from. When an allow-list is
// configured it is returned as-is without touching the Engine API, matching
// the static-configuration mode. Otherwise all running containers are
// enumerated; an API failure here is an EnumerationError.
func (s *Source) List(ctx context.Context) ([]string, error) {
	if len(s.allowList) > 0 {
		names := make([]string, len(s.allowList))
		copy(names, s.allowList)
		return names, nil
	}

	raw, err := s.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, &source.EnumerationError{Provider: "docker", Err: err}
	}

	names := make([]string, 0, len(raw))
	for _, r := range raw {
		if len(r.Names) == 0 {
			continue
		}
		names = append(names, strings.TrimPrefix(r.Names[0], "/"))
	}
	return names, nil
}

// Fetch returns the combined stdout+stderr log text for one container from
// since (inclusive) onward. Non-TTY containers produce a multiplexed stream
// that must be demultiplexed; the SDK does not expose the framing mode on the
// logs call itself, so the container is inspected first.
func (s *Source) Fetch(ctx context.Context, name string, since time.Time) (string, error) {
	info, err := s.client.ContainerInspect(ctx, name)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", name, err)
	}
	isTTY := info.Config != nil && info.Config.Tty

	opts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	}
	if !since.IsZero() {
		// Nanosecond precision keeps the [since, until) boundary exact:
		// the Engine API returns lines stamped at or after this instant.
		opts.Since = fmt.Sprintf("%d.%09d", since.Unix(), since.Nanosecond())
	}

	body, err := s.client.ContainerLogs(ctx, name, opts)
	if err != nil {
		return "", fmt.Errorf("logs %s: %w", name, err)
	}
	defer body.Close()

	var buf bytes.Buffer
	if isTTY {
		_, err = io.Copy(&buf, body)
	} else {
		// Interleave stdout and stderr the way docker logs does.
		_, err = stdcopy.StdCopy(&buf, &buf, body)
	}
	if err != nil {
		return "", fmt.Errorf("read logs %s: %w", name, err)
	}
	return buf.String(), nil
}
