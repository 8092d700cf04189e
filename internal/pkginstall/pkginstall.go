// Package pkginstall installs OS prerequisite packages and the application
// runtime. Both operations are safe to re-run on an already-provisioned host.
package pkginstall

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"jacredctl/internal/messages"
	"jacredctl/internal/workspace"
)

// Runner runs external commands and resolves executables.
type Runner interface {
	Run(name string, args ...string) error
	LookPath(file string) (string, error)
}

// ExecRunner implements Runner by invoking commands attached to the given
// writers, with apt prompts disabled.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args and waits for completion.
func (r ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	return cmd.Run()
}

// LookPath searches PATH for an executable.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Installer provisions prerequisite packages and the runtime.
type Installer struct {
	Runner    Runner
	Client    *http.Client
	Workspace *workspace.Workspace
}

// NewInstaller returns an Installer with a bounded-timeout HTTP client.
func NewInstaller(runner Runner, ws *workspace.Workspace) *Installer {
	return &Installer{
		Runner:    runner,
		Client:    &http.Client{Timeout: 5 * time.Minute},
		Workspace: ws,
	}
}

// Prerequisites installs the named packages through apt-get. apt-get is
// idempotent for already-installed packages.
func (i *Installer) Prerequisites(packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"install", "-y"}, packages...)
	if err := i.Runner.Run("apt-get", args...); err != nil {
		return fmt.Errorf(messages.PkginstallAptFmt, strings.Join(packages, " "), err)
	}
	return nil
}

// Runtime fetches the runtime bootstrap script into the workspace and runs
// it through bash. The script itself is treated as opaque: pass means the
// runtime is available, fail halts the operation.
func (i *Installer) Runtime(bootstrapURL string) error {
	scriptPath, err := i.fetchBootstrap(bootstrapURL)
	if err != nil {
		return err
	}
	if err := i.Runner.Run("bash", scriptPath); err != nil {
		return fmt.Errorf(messages.PkginstallRunBootstrapFmt, err)
	}
	return nil
}

// RuntimePath resolves the runtime binary on PATH.
func (i *Installer) RuntimePath(binary string) (string, error) {
	return i.Runner.LookPath(binary)
}

func (i *Installer) fetchBootstrap(bootstrapURL string) (string, error) {
	resp, err := i.Client.Get(bootstrapURL)
	if err != nil {
		return "", fmt.Errorf(messages.PkginstallFetchBootstrapFmt, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf(messages.PkginstallFetchBootstrapFmt, fmt.Errorf("unexpected status %s", resp.Status))
	}

	dir, err := i.Workspace.TempDir()
	if err != nil {
		return "", err
	}
	file, err := i.Workspace.TempFile(dir, "bootstrap-*.sh")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		return "", fmt.Errorf(messages.PkginstallFetchBootstrapFmt, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf(messages.PkginstallFetchBootstrapFmt, err)
	}
	return file.Name(), nil
}
