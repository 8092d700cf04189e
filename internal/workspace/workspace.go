// Package workspace owns transient artifacts (scratch directories and
// downloaded archives) for the span of one operation and guarantees their
// removal on every exit path.
package workspace

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"jacredctl/internal/messages"
)

// Workspace is a cleanup registry for transient paths. The zero value is
// ready to use.
type Workspace struct {
	mu       sync.Mutex
	paths    []string
	released bool
}

// TempDir creates a scratch directory and registers it for removal.
func (w *Workspace) TempDir() (string, error) {
	dir, err := os.MkdirTemp("", "jacredctl-*")
	if err != nil {
		return "", fmt.Errorf(messages.WorkspaceCreateDirFmt, err)
	}
	w.Track(dir)
	return dir, nil
}

// TempFile creates a scratch file in dir with the given name pattern and
// registers it for removal.
func (w *Workspace) TempFile(dir string, pattern string) (*os.File, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf(messages.WorkspaceCreateFileFmt, dir, err)
	}
	w.Track(file.Name())
	return file, nil
}

// Track registers an externally created path for removal on Release.
func (w *Workspace) Track(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		_ = os.RemoveAll(path)
		return
	}
	w.paths = append(w.paths, path)
}

// Release removes every registered path, most recent first. It is
// idempotent and safe to call from a signal handler goroutine.
func (w *Workspace) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return
	}
	w.released = true
	for i := len(w.paths) - 1; i >= 0; i-- {
		_ = os.RemoveAll(w.paths[i])
	}
	w.paths = nil
}

// ReleaseOnSignal releases the workspace and calls exit(1) when the process
// receives SIGINT or SIGTERM. The returned stop function uninstalls the
// handler; callers defer it so normal exits are unaffected.
func (w *Workspace) ReleaseOnSignal(exit func(int)) (stop func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, unix.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-signals:
			w.Release()
			exit(1)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}
