package builder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"berth/internal/core/domain"
)

// Adapter implements ports.ImageBuilder using the Docker build API.
type Adapter struct {
	cli *client.Client
	log zerolog.Logger
}

// NewAdapter creates a new builder adapter instance.
func NewAdapter(log zerolog.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: log}, nil
}

// BuildImage builds the image for the desired spec and returns its
// reference. With RepoURL set the repository is shallow-cloned into a
// temporary directory first; otherwise BuildContext is used as the
// build context and must contain a Dockerfile.
func (a *Adapter) BuildImage(ctx context.Context, desired domain.DesiredState) (string, error) {
	contextDir, cleanup, err := a.resolveContext(ctx, desired)
	if err != nil {
		return "", err
	}
	defer cleanup()

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	ref := desired.Ref()
	a.log.Info().Str("image", ref).Str("context", contextDir).Msg("building image")

	resp, err := a.cli.ImageBuild(ctx, tar, build.ImageBuildOptions{
		Tags:       []string{ref},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The build API answers 200 before the build runs; failures arrive
	// inside the response stream.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil); err != nil {
		return "", fmt.Errorf("build failed: %w", err)
	}
	return ref, nil
}

// resolveContext returns the directory to build from and a cleanup
// function for any temporary clone.
func (a *Adapter) resolveContext(ctx context.Context, desired domain.DesiredState) (string, func(), error) {
	if desired.RepoURL != "" {
		tmpDir, err := os.MkdirTemp("", "berth-build-*")
		if err != nil {
			return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		a.log.Info().Str("repo", desired.RepoURL).Str("dir", tmpDir).Msg("cloning repository")
		_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
			URL:   desired.RepoURL,
			Depth: 1,
		})
		if err != nil {
			os.RemoveAll(tmpDir)
			return "", nil, fmt.Errorf("failed to clone repo: %w", err)
		}
		return tmpDir, func() { os.RemoveAll(tmpDir) }, nil
	}

	if desired.BuildContext == "" {
		return "", nil, fmt.Errorf("build requested but no build context or repo url given")
	}
	info, err := os.Stat(desired.BuildContext)
	if err != nil {
		return "", nil, fmt.Errorf("build context %s: %w", desired.BuildContext, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("build context %s is not a directory", desired.BuildContext)
	}
	return desired.BuildContext, func() {}, nil
}
