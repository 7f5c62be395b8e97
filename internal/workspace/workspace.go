// Package workspace manages the release output directory: destructive reset
// before a run, an exclusive run lock, and a JSON journal describing the
// run's outcome for post-mortem inspection.
package workspace

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotPrepared is returned when the workspace is used before Reset.
var ErrNotPrepared = errors.New("workspace has not been prepared")

// Workspace is the scoped output directory resource. It is prepared once
// per run; artifacts from a failed run are left in place for inspection
// because the next run resets the directory anyway.
type Workspace struct {
	root     string
	prepared bool
}

// New creates a workspace rooted at the given directory. Nothing touches
// the filesystem until Reset is called.
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// Root returns the output directory path.
func (w *Workspace) Root() string {
	return w.root
}

// Reset deletes any pre-existing output directory, tolerating its absence,
// and creates a fresh empty one. This is destructive: a prior run's output
// is gone after Reset returns. Failure here is unrecoverable for the run
// since no artifact can be written.
func (w *Workspace) Reset() error {
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("remove output directory %s: %w", w.root, err)
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", w.root, err)
	}
	w.prepared = true
	return nil
}

// Prepared reports whether Reset has completed.
func (w *Workspace) Prepared() bool {
	return w.prepared
}
