package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berth/internal/core/domain"
)

func TestResolveContextLocalDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	a := &Adapter{log: zerolog.Nop()}
	got, cleanup, err := a.resolveContext(context.Background(), domain.DesiredState{BuildContext: dir})
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, dir, got)
}

func TestResolveContextMissing(t *testing.T) {
	a := &Adapter{log: zerolog.Nop()}

	_, _, err := a.resolveContext(context.Background(), domain.DesiredState{})
	assert.Error(t, err)

	_, _, err = a.resolveContext(context.Background(), domain.DesiredState{BuildContext: "/no/such/dir"})
	assert.Error(t, err)
}

func TestResolveContextFileNotDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Dockerfile")
	require.NoError(t, os.WriteFile(file, []byte("FROM scratch\n"), 0o644))

	a := &Adapter{log: zerolog.Nop()}
	_, _, err := a.resolveContext(context.Background(), domain.DesiredState{BuildContext: file})
	assert.Error(t, err)
}
