package ports

import (
	"context"

	"berth/internal/core/domain"
)

// ImageBuilder defines operations for building container images from
// source code.
type ImageBuilder interface {
	// BuildImage builds the image for the desired spec, either from its
	// local build context or by cloning RepoURL first. It returns the
	// reference of the built image.
	BuildImage(ctx context.Context, desired domain.DesiredState) (string, error)
}
