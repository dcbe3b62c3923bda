package reconciler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"berth/internal/core/domain"
	"berth/internal/core/ports"
)

// Reconciler brings a single named container to the desired running
// state. One invocation performs at most one build, one directory
// creation, one stop/remove and one run, in that order; the first
// failure ends the invocation.
type Reconciler struct {
	runtime ports.ContainerRuntime
	builder ports.ImageBuilder
	fs      ports.Filesystem
	log     zerolog.Logger
}

// New wires the reconciler with its collaborators.
func New(runtime ports.ContainerRuntime, builder ports.ImageBuilder, fs ports.Filesystem, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		runtime: runtime,
		builder: builder,
		fs:      fs,
		log:     log,
	}
}

// Reconcile converges the runtime to the desired spec. It is safe to
// re-run: a second pass with the same spec tears down the container the
// first pass started and launches a fresh one.
//
// Concurrent invocations against the same container name are not
// coordinated here; callers that may run in parallel must serialize
// externally (a file lock, a pipeline mutex).
func (r *Reconciler) Reconcile(ctx context.Context, desired domain.DesiredState) (domain.RunningContainer, error) {
	if err := desired.Validate(); err != nil {
		return domain.RunningContainer{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	invocation := uuid.NewString()
	log := r.log.With().
		Str("invocation", invocation).
		Str("container", desired.ContainerName()).
		Logger()

	if err := r.ensureImage(ctx, log, desired); err != nil {
		return domain.RunningContainer{}, err
	}
	if err := r.ensureVolumeDir(log, desired); err != nil {
		return domain.RunningContainer{}, err
	}
	if err := r.teardownStale(ctx, log, desired.ContainerName()); err != nil {
		return domain.RunningContainer{}, err
	}
	return r.launch(ctx, log, invocation, desired)
}

// ensureImage builds the image when the spec asks for it. When Build is
// false the image is assumed present; that assumption belongs to the
// caller and is not verified here.
func (r *Reconciler) ensureImage(ctx context.Context, log zerolog.Logger, desired domain.DesiredState) error {
	if !desired.Build {
		log.Debug().Str("image", desired.Ref()).Msg("build not requested, assuming image present")
		return nil
	}
	log.Info().Str("image", desired.Ref()).Msg("building image")
	if _, err := r.builder.BuildImage(ctx, desired); err != nil {
		return fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return nil
}

// ensureVolumeDir creates the host volume directory, parents included.
// An unset volume path performs no I/O at all.
func (r *Reconciler) ensureVolumeDir(log zerolog.Logger, desired domain.DesiredState) error {
	if desired.VolumePath == "" {
		return nil
	}
	ok, err := r.fs.DirExists(desired.VolumePath)
	if err != nil {
		return fmt.Errorf("%w: checking %s: %v", ErrFilesystem, desired.VolumePath, err)
	}
	if ok {
		return nil
	}
	log.Info().Str("path", desired.VolumePath).Msg("creating volume directory")
	if err := r.fs.MkdirAll(desired.VolumePath); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFilesystem, desired.VolumePath, err)
	}
	return nil
}

// teardownStale stops and removes any container holding the target name.
// A stop failure is fatal before removal is attempted; an operator must
// see the first failure rather than have it masked by a forced removal.
func (r *Reconciler) teardownStale(ctx context.Context, log zerolog.Logger, name string) error {
	observed, err := r.runtime.FindContainer(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: querying %s: %v", ErrStop, name, err)
	}
	if !observed.Exists {
		log.Debug().Msg("no stale container")
		return nil
	}

	if observed.Running {
		log.Info().Str("id", observed.ID).Msg("stopping stale container")
		if err := r.runtime.StopContainer(ctx, observed.ID); err != nil {
			return fmt.Errorf("%w: stopping %s: %v", ErrStop, observed.ID, err)
		}
	}
	log.Info().Str("id", observed.ID).Msg("removing stale container")
	if err := r.runtime.RemoveContainer(ctx, observed.ID); err != nil {
		return fmt.Errorf("%w: removing %s: %v", ErrStop, observed.ID, err)
	}
	return nil
}

func (r *Reconciler) launch(ctx context.Context, log zerolog.Logger, invocation string, desired domain.DesiredState) (domain.RunningContainer, error) {
	log.Info().
		Str("image", desired.Ref()).
		Uint16("host_port", desired.HostPort).
		Uint16("container_port", desired.ContainerPort).
		Msg("launching container")

	id, err := r.runtime.RunContainer(ctx, desired)
	if err != nil {
		return domain.RunningContainer{}, fmt.Errorf("%w: %v", ErrRun, err)
	}

	log.Info().Str("id", id).Msg("container running")
	return domain.RunningContainer{
		ID:           id,
		Name:         desired.ContainerName(),
		Image:        desired.Ref(),
		InvocationID: invocation,
		StartedAt:    time.Now().UTC(),
	}, nil
}

// Teardown stops and removes the named container without relaunching
// it. Missing containers are a no-op.
func (r *Reconciler) Teardown(ctx context.Context, desired domain.DesiredState) error {
	if desired.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	return r.teardownStale(ctx, r.log, desired.ContainerName())
}

// Status reports the observed state of the named container.
func (r *Reconciler) Status(ctx context.Context, desired domain.DesiredState) (domain.ObservedState, error) {
	if desired.Name == "" {
		return domain.ObservedState{}, fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	return r.runtime.FindContainer(ctx, desired.ContainerName())
}

// Logs streams the logs of the named container.
func (r *Reconciler) Logs(ctx context.Context, desired domain.DesiredState) (io.ReadCloser, error) {
	observed, err := r.Status(ctx, desired)
	if err != nil {
		return nil, err
	}
	if !observed.Exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, desired.ContainerName())
	}
	return r.runtime.ContainerLogs(ctx, observed.ID)
}
