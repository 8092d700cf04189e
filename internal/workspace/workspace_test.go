package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestReleaseRemovesTrackedPaths(t *testing.T) {
	t.Parallel()
	var ws Workspace

	dir, err := ws.TempDir()
	if err != nil {
		t.Fatalf("TempDir error: %v", err)
	}
	file, err := ws.TempFile(dir, "archive-*.tar.gz")
	if err != nil {
		t.Fatalf("TempFile error: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}

	ws.Release()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed, stat err: %v", err)
	}
	if _, err := os.Stat(file.Name()); !os.IsNotExist(err) {
		t.Fatalf("expected scratch file removed, stat err: %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()
	var ws Workspace
	if _, err := ws.TempDir(); err != nil {
		t.Fatalf("TempDir error: %v", err)
	}
	ws.Release()
	ws.Release()
}

func TestTrackAfterReleaseRemovesImmediately(t *testing.T) {
	t.Parallel()
	var ws Workspace
	ws.Release()

	path := filepath.Join(t.TempDir(), "late.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ws.Track(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected late-tracked path removed, stat err: %v", err)
	}
}

func TestReleaseOnSignal(t *testing.T) {
	var ws Workspace
	dir, err := ws.TempDir()
	if err != nil {
		t.Fatalf("TempDir error: %v", err)
	}

	exited := make(chan int, 1)
	stop := ws.ReleaseOnSignal(func(code int) { exited <- code })
	defer stop()

	if err := unix.Kill(os.Getpid(), unix.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}

	select {
	case code := <-exited:
		if code != 1 {
			t.Fatalf("expected exit code 1, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for signal-driven release")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed after signal, stat err: %v", err)
	}
}
