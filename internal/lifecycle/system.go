package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"jacredctl/internal/fsutil"
)

const saveSignalTimeout = 5 * time.Second

// System is the host surface the orchestrator touches directly: install root
// filesystem state and the running instance's save endpoint.
type System interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
	SaveSignal(ctx context.Context, endpoint string) error
}

// RealSystem implements System against the local host.
type RealSystem struct{}

func (RealSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func (RealSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (RealSystem) RemoveAll(path string) error { return os.RemoveAll(path) }

func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// SaveSignal asks the running instance to persist its database. The call is
// bounded by a short timeout so a stopped instance does not stall the update.
func (RealSystem) SaveSignal(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, saveSignalTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
