package ports

import (
	"context"
	"io"

	"berth/internal/core/domain"
)

// ContainerRuntime defines the operations the reconciler needs from the
// container runtime. This interface allows us to switch between Docker,
// Podman, or anything speaking a compatible API without changing the
// reconcile logic.
type ContainerRuntime interface {
	// FindContainer reports the state of the container with the exact
	// given name, running or stopped. A missing container is not an
	// error; the returned state has Exists == false.
	FindContainer(ctx context.Context, name string) (domain.ObservedState, error)

	StopContainer(ctx context.Context, id string) error
	RemoveContainer(ctx context.Context, id string) error

	// RunContainer creates and starts a container for the desired spec,
	// publishing the host port and bind-mounting the volume path if set.
	// It returns the id of the started container.
	RunContainer(ctx context.Context, desired domain.DesiredState) (string, error)

	ContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}

// Filesystem is the narrow filesystem surface the reconciler touches.
type Filesystem interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) (bool, error)
	MkdirAll(path string) error
}
