package docker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"berth/internal/core/domain"
)

// Stop deadline handed to the daemon before it kills the container.
const stopTimeout = 10 * time.Second

// Adapter implements ports.ContainerRuntime using the Docker SDK.
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance. Connection details
// come from the standard DOCKER_* environment variables.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// FindContainer looks up a container by exact name, running or not.
// Docker's name filter matches substrings, so the result list is
// re-checked for an exact match after trimming the leading slash.
func (a *Adapter) FindContainer(ctx context.Context, name string) (domain.ObservedState, error) {
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return domain.ObservedState{}, fmt.Errorf("failed to list containers: %w", err)
	}

	for _, c := range containers {
		if !matchesName(c.Names, name) {
			continue
		}
		return domain.ObservedState{
			Exists:  true,
			Running: c.State == "running",
			ID:      c.ID,
			Name:    name,
			Status:  c.Status,
		}, nil
	}
	return domain.ObservedState{}, nil
}

// StopContainer stops a running container.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout+5*time.Second)
	defer cancel()

	seconds := int(stopTimeout.Seconds())
	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &seconds}); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", id, err)
	}
	return nil
}

// RemoveContainer removes a stopped container.
func (a *Adapter) RemoveContainer(ctx context.Context, id string) error {
	if err := a.cli.ContainerRemove(ctx, id, container.RemoveOptions{}); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", id, err)
	}
	return nil
}

// RunContainer creates and starts a container for the desired spec,
// publishing HostPort to ContainerPort and bind-mounting the volume
// path when set. The image is expected to be present already; launch
// does not pull.
func (a *Adapter) RunContainer(ctx context.Context, desired domain.DesiredState) (string, error) {
	exposed, bindings, err := portMappings(desired)
	if err != nil {
		return "", err
	}

	config := &container.Config{
		Image:        desired.Ref(),
		Env:          desired.Env,
		ExposedPorts: exposed,
	}
	hostConfig := &container.HostConfig{
		PortBindings: bindings,
		Mounts:       mounts(desired),
	}

	resp, err := a.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, desired.ContainerName())
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}
	return resp.ID, nil
}

// ContainerLogs returns a stream of container logs.
func (a *Adapter) ContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	return a.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
	})
}

// matchesName reports whether any of the runtime-reported names equals
// the target after trimming the leading slash.
func matchesName(names []string, target string) bool {
	for _, n := range names {
		if strings.TrimPrefix(n, "/") == target {
			return true
		}
	}
	return false
}

// portMappings builds the exposed-port set and host binding map for the
// desired spec.
func portMappings(desired domain.DesiredState) (nat.PortSet, nat.PortMap, error) {
	port, err := nat.NewPort("tcp", fmt.Sprintf("%d", desired.ContainerPort))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid container port %d: %w", desired.ContainerPort, err)
	}
	exposed := nat.PortSet{port: struct{}{}}
	bindings := nat.PortMap{
		port: []nat.PortBinding{{
			HostIP:   "0.0.0.0",
			HostPort: fmt.Sprintf("%d", desired.HostPort),
		}},
	}
	return exposed, bindings, nil
}

// mounts returns the bind mount for the volume path, or nothing when the
// spec has no volume.
func mounts(desired domain.DesiredState) []mount.Mount {
	if desired.VolumePath == "" {
		return nil
	}
	return []mount.Mount{{
		Type:   mount.TypeBind,
		Source: desired.VolumePath,
		Target: desired.Mount(),
	}}
}
