package fs_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berth/internal/adapters/fs"
)

func TestDirExists(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/data/db", 0o755))
	a := fs.NewAdapterWithFs(mem)

	ok, err := a.DirExists("/data/db")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.DirExists("/data/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirExistsFileCollision(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/data/db", []byte("not a dir"), 0o644))
	a := fs.NewAdapterWithFs(mem)

	_, err := a.DirExists("/data/db")
	assert.Error(t, err)
}

func TestMkdirAllCreatesParents(t *testing.T) {
	mem := afero.NewMemMapFs()
	a := fs.NewAdapterWithFs(mem)

	require.NoError(t, a.MkdirAll("/data/db/nested"))
	ok, err := a.DirExists("/data/db/nested")
	require.NoError(t, err)
	assert.True(t, ok)
}
