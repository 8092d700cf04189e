// Package sysd manages the service's systemd unit and lifecycle actions.
package sysd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/coreos/go-systemd/v22/unit"

	"jacredctl/internal/fsutil"
	"jacredctl/internal/messages"
)

// UnitDescriptor declares the supervised service unit. Materializing the
// descriptor overwrites any prior unit definition unconditionally.
type UnitDescriptor struct {
	Name             string
	Description      string
	WorkingDirectory string
	ExecStart        string
	RestartPolicy    string
}

// Manager abstracts the service supervisor. Stop and Disable are defined as
// idempotent: they never fail on an already-stopped or already-disabled
// service.
type Manager interface {
	InstallUnit(desc UnitDescriptor) error
	RemoveUnit(name string) error
	Start(name string) error
	Stop(name string) error
	Enable(name string) error
	Disable(name string) error
}

// Runner runs the supervisor's control command.
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner implements Runner by invoking commands attached to the given
// writers.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args and waits for completion.
func (r ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Systemd is the production Manager. It writes unit files into UnitDir and
// shells out to systemctl for lifecycle actions.
type Systemd struct {
	UnitDir string
	Runner  Runner
	// Infof receives best-effort notices (ignored stop/disable failures,
	// absent-unit removals). Nil disables them.
	Infof func(format string, args ...any)
}

// NewSystemd returns a Systemd manager against the host's unit store.
func NewSystemd(runner Runner, infof func(format string, args ...any)) *Systemd {
	return &Systemd{
		UnitDir: "/etc/systemd/system",
		Runner:  runner,
		Infof:   infof,
	}
}

// UnitPath returns the unit file location for name.
func (s *Systemd) UnitPath(name string) string {
	return filepath.Join(s.UnitDir, name+".service")
}

// InstallUnit writes the unit file for desc and reloads the daemon. Any
// existing definition is replaced without diffing.
func (s *Systemd) InstallUnit(desc UnitDescriptor) error {
	restart := desc.RestartPolicy
	if restart == "" {
		restart = "always"
	}
	options := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", desc.Description),
		unit.NewUnitOption("Unit", "After", "network.target"),
		unit.NewUnitOption("Service", "WorkingDirectory", desc.WorkingDirectory),
		unit.NewUnitOption("Service", "ExecStart", desc.ExecStart),
		unit.NewUnitOption("Service", "Restart", restart),
		unit.NewUnitOption("Service", "RestartSec", "5"),
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	}
	data, err := io.ReadAll(unit.Serialize(options))
	if err != nil {
		return fmt.Errorf(messages.SysdSerializeUnitFmt, desc.Name, err)
	}
	path := s.UnitPath(desc.Name)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.SysdWriteUnitFmt, path, err)
	}
	return s.daemonReload()
}

// RemoveUnit deletes the unit file and reloads the daemon. A missing unit
// file is a logged no-op.
func (s *Systemd) RemoveUnit(name string) error {
	path := s.UnitPath(name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.notice(messages.SysdUnitAlreadyAbsentFmt, path)
			return nil
		}
		return fmt.Errorf(messages.SysdRemoveUnitFmt, path, err)
	}
	return s.daemonReload()
}

// Start starts the service.
func (s *Systemd) Start(name string) error {
	return s.action("start", name)
}

// Stop stops the service; failures are treated as "already stopped".
func (s *Systemd) Stop(name string) error {
	return s.tolerantAction("stop", name)
}

// Enable enables the service at boot.
func (s *Systemd) Enable(name string) error {
	return s.action("enable", name)
}

// Disable disables the service at boot; failures are treated as "already
// disabled".
func (s *Systemd) Disable(name string) error {
	return s.tolerantAction("disable", name)
}

func (s *Systemd) action(verb string, name string) error {
	if err := s.Runner.Run("systemctl", verb, name+".service"); err != nil {
		return fmt.Errorf(messages.SysdActionFmt, verb, name, err)
	}
	return nil
}

func (s *Systemd) tolerantAction(verb string, name string) error {
	if err := s.Runner.Run("systemctl", verb, name+".service"); err != nil {
		s.notice(messages.SysdIgnoredActionFmt, verb, name, err)
	}
	return nil
}

func (s *Systemd) daemonReload() error {
	if err := s.Runner.Run("systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf(messages.SysdDaemonReloadFmt, err)
	}
	return nil
}

func (s *Systemd) notice(format string, args ...any) {
	if s.Infof != nil {
		s.Infof(format, args...)
	}
}
