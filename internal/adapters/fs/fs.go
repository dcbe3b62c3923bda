// Package fs adapts the host filesystem to the narrow surface the
// reconciler needs. It is backed by afero so tests can run against an
// in-memory filesystem.
package fs

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

type Adapter struct {
	fs afero.Fs
}

// NewAdapter returns an adapter over the OS filesystem.
func NewAdapter() *Adapter {
	return NewAdapterWithFs(afero.NewOsFs())
}

// NewAdapterWithFs returns an adapter over the given filesystem.
func NewAdapterWithFs(fs afero.Fs) *Adapter {
	return &Adapter{fs: fs}
}

// DirExists reports whether path exists and is a directory. A regular
// file at the path is an error, not "absent": creating the directory
// over it could never succeed.
func (a *Adapter) DirExists(path string) (bool, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists and is not a directory", path)
	}
	return true, nil
}

// MkdirAll creates the directory at path, parents included.
func (a *Adapter) MkdirAll(path string) error {
	return a.fs.MkdirAll(path, 0o755)
}
