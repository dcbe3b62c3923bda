package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berth/internal/core/domain"
)

func validSpec() domain.DesiredState {
	return domain.DesiredState{
		Image:         "boxing_flask",
		Tag:           "latest",
		HostPort:      5002,
		ContainerPort: 5002,
		Name:          "boxing_flask",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validSpec().Validate())

	tests := []struct {
		name   string
		mutate func(*domain.DesiredState)
	}{
		{"missing image", func(d *domain.DesiredState) { d.Image = "" }},
		{"missing name", func(d *domain.DesiredState) { d.Name = "" }},
		{"zero host port", func(d *domain.DesiredState) { d.HostPort = 0 }},
		{"zero container port", func(d *domain.DesiredState) { d.ContainerPort = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestContainerName(t *testing.T) {
	assert.Equal(t, "boxing_flask_container", validSpec().ContainerName())
}

func TestRefAppliesDefaultTag(t *testing.T) {
	spec := validSpec()
	assert.Equal(t, "boxing_flask:latest", spec.Ref())

	spec.Tag = ""
	assert.Equal(t, "boxing_flask:latest", spec.Ref())

	spec.Tag = "v2"
	assert.Equal(t, "boxing_flask:v2", spec.Ref())
}

func TestMountAppliesDefault(t *testing.T) {
	spec := validSpec()
	assert.Equal(t, domain.DefaultMountPath, spec.Mount())

	spec.MountPath = "/srv/data"
	assert.Equal(t, "/srv/data", spec.Mount())
}
