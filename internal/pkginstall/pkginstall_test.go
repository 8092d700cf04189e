package pkginstall

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"jacredctl/internal/testutil"
	"jacredctl/internal/workspace"
)

type fakeRunner struct {
	calls   [][]string
	failOn  string
	missing map[string]bool
}

func (f *fakeRunner) Run(name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.missing[file] {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + file, nil
}

func TestPrerequisitesInvokesAptGet(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	inst := NewInstaller(runner, &workspace.Workspace{})

	if err := inst.Prerequisites([]string{"curl", "tar"}); err != nil {
		t.Fatalf("Prerequisites error: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	got := strings.Join(runner.calls[0], " ")
	if got != "apt-get install -y curl tar" {
		t.Fatalf("unexpected invocation: %q", got)
	}
}

func TestPrerequisitesEmptyListIsNoop(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	inst := NewInstaller(runner, &workspace.Workspace{})
	if err := inst.Prerequisites(nil); err != nil {
		t.Fatalf("Prerequisites error: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no calls, got %v", runner.calls)
	}
}

func TestPrerequisitesPropagatesFailure(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{failOn: "apt-get"}
	inst := NewInstaller(runner, &workspace.Workspace{})
	if err := inst.Prerequisites([]string{"curl"}); err == nil {
		t.Fatal("expected error from apt-get failure")
	}
}

func TestRuntimeFetchesAndRunsBootstrap(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#!/bin/sh\nexit 0\n"))
	}))
	defer server.Close()

	runner := &fakeRunner{}
	ws := &workspace.Workspace{}
	defer ws.Release()
	inst := NewInstaller(runner, ws)

	if err := inst.Runtime(server.URL); err != nil {
		t.Fatalf("Runtime error: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "bash" {
		t.Fatalf("expected bash invocation, got %v", runner.calls)
	}
	scriptPath := runner.calls[0][1]
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("read fetched script: %v", err)
	}
	if !strings.Contains(string(data), "exit 0") {
		t.Fatalf("unexpected script content: %q", string(data))
	}

	ws.Release()
	if _, err := os.Stat(scriptPath); !os.IsNotExist(err) {
		t.Fatalf("expected script cleaned up, stat err: %v", err)
	}
}

func TestRuntimeNon2xxIsFatal(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	inst := NewInstaller(&fakeRunner{}, &workspace.Workspace{})
	if err := inst.Runtime(server.URL); err == nil {
		t.Fatal("expected error for 404 bootstrap response")
	}
}

func TestRuntimePath(t *testing.T) {
	t.Parallel()
	inst := NewInstaller(&fakeRunner{missing: map[string]bool{"dotnet": true}}, &workspace.Workspace{})
	if _, err := inst.RuntimePath("dotnet"); err == nil {
		t.Fatal("expected dotnet to be reported missing")
	}
	path, err := inst.RuntimePath("bash")
	if err != nil {
		t.Fatalf("RuntimePath error: %v", err)
	}
	if path != "/usr/bin/bash" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestExecRunnerUsesPathLookup(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteStub(t, dir, "apt-get")
	t.Setenv("PATH", dir)

	runner := ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	if err := runner.Run("apt-get", "install", "-y", "curl"); err != nil {
		t.Fatalf("ExecRunner.Run error: %v", err)
	}
	if _, err := runner.LookPath("apt-get"); err != nil {
		t.Fatalf("LookPath error: %v", err)
	}
}
