package domain

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultTag is used when the spec leaves the image tag empty.
	DefaultTag = "latest"

	// DefaultMountPath is where the volume directory lands inside the
	// container when the spec does not override it. The applications we
	// deploy keep their database under /app/db.
	DefaultMountPath = "/app/db"

	containerNameSuffix = "_container"
)

// DesiredState is the immutable target configuration for one container.
// It is constructed once per invocation and passed by value.
type DesiredState struct {
	Image         string `json:"image"`
	Tag           string `json:"tag"`
	HostPort      uint16 `json:"host_port"`
	ContainerPort uint16 `json:"container_port"`
	VolumePath    string `json:"volume_path,omitempty"`
	MountPath     string `json:"mount_path,omitempty"`
	Name          string `json:"name"`

	// Build requests an image build before launch. When false the image
	// is assumed to be present already; the reconciler does not verify
	// this, it is the caller's responsibility.
	Build bool `json:"build"`

	// BuildContext is the local directory holding the Dockerfile.
	// RepoURL, when set, takes precedence: the repository is cloned and
	// built instead.
	BuildContext string `json:"build_context,omitempty"`
	RepoURL      string `json:"repo_url,omitempty"`

	// Env holds KEY=VALUE pairs passed to the container.
	Env []string `json:"env,omitempty"`
}

// Validate checks the spec invariants before any collaborator is called.
func (d DesiredState) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Image, validation.Required),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.HostPort, validation.Required, validation.Min(uint16(1))),
		validation.Field(&d.ContainerPort, validation.Required, validation.Min(uint16(1))),
	)
}

// ContainerName is the runtime name of the managed container.
func (d DesiredState) ContainerName() string {
	return d.Name + containerNameSuffix
}

// Ref returns the image reference, applying the default tag.
func (d DesiredState) Ref() string {
	tag := d.Tag
	if tag == "" {
		tag = DefaultTag
	}
	return fmt.Sprintf("%s:%s", d.Image, tag)
}

// Mount returns the in-container mount target, applying the default.
func (d DesiredState) Mount() string {
	if d.MountPath == "" {
		return DefaultMountPath
	}
	return d.MountPath
}
