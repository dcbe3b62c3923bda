package reconciler

import "errors"

// Each reconcile step fails with its own kind. Failures are terminal for
// the invocation: no retries, no local recovery. Removal failures fold
// into ErrStop because stop+remove is one logical teardown transition.
var (
	ErrInvalidSpec = errors.New("invalid container spec")
	ErrBuild       = errors.New("image build failed")
	ErrFilesystem  = errors.New("volume directory ensure failed")
	ErrStop        = errors.New("stale container teardown failed")
	ErrRun         = errors.New("container launch failed")
	ErrNotFound    = errors.New("container not found")
)

// Process exit codes, one per failure kind.
const (
	ExitOK          = 0
	ExitBuild       = 1
	ExitFilesystem  = 2
	ExitStop        = 3
	ExitRun         = 4
	ExitInvalidSpec = 5
	ExitNotFound    = 6
	exitUnknown     = 10
)

// Kind names the failure kind of an error returned by Reconcile, or ""
// for nil and unclassified errors.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrBuild):
		return "build"
	case errors.Is(err, ErrFilesystem):
		return "filesystem"
	case errors.Is(err, ErrStop):
		return "stop"
	case errors.Is(err, ErrRun):
		return "run"
	case errors.Is(err, ErrInvalidSpec):
		return "invalid_spec"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return ""
	}
}

// ExitCode maps an error returned by Reconcile to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrBuild):
		return ExitBuild
	case errors.Is(err, ErrFilesystem):
		return ExitFilesystem
	case errors.Is(err, ErrStop):
		return ExitStop
	case errors.Is(err, ErrRun):
		return ExitRun
	case errors.Is(err, ErrInvalidSpec):
		return ExitInvalidSpec
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return exitUnknown
	}
}
