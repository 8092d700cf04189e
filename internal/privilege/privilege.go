// Package privilege ensures the process runs with root rights, re-invoking
// itself under sudo when it does not.
package privilege

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"jacredctl/internal/messages"
)

// EnvInvokingUser carries the pre-elevation identity. sudo sets it on the
// elevated child, which is how cron entries land on the human account
// instead of root.
const EnvInvokingUser = "SUDO_USER"

// System abstracts the process-level operations the gate needs.
type System interface {
	Geteuid() int
	Getenv(key string) string
	Executable() (string, error)
	LookPath(file string) (string, error)
	RunCommand(path string, args []string) (int, error)
}

// RealSystem implements System against the OS.
type RealSystem struct{}

// Geteuid returns the effective user id.
func (RealSystem) Geteuid() int {
	return os.Geteuid()
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Executable returns the path of the running binary.
func (RealSystem) Executable() (string, error) {
	return os.Executable()
}

// LookPath searches PATH for an executable.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunCommand runs path with args attached to this process's stdio and
// returns the child's exit code.
func (RealSystem) RunCommand(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			code = 1
		}
		return code, nil
	}
	return 1, err
}

// Elevated reports whether the process already runs as root.
func Elevated(sys System) bool {
	return sys.Geteuid() == 0
}

// InvokingUser returns the identity that launched the tool: SUDO_USER when
// running under sudo, root otherwise.
func InvokingUser(sys System) string {
	if user := sys.Getenv(EnvInvokingUser); user != "" {
		return user
	}
	return "root"
}

// EnsureElevated re-executes the identical invocation under sudo when not
// already root, then hands the child's exit status to exit. It returns
// without calling exit when the process is already elevated.
func EnsureElevated(sys System, args []string, notice func(string), exit func(int)) error {
	if Elevated(sys) {
		return nil
	}
	sudoPath, err := sys.LookPath("sudo")
	if err != nil {
		return errors.New(messages.PrivilegeSudoNotFound)
	}
	binary, err := sys.Executable()
	if err != nil {
		return fmt.Errorf(messages.PrivilegeResolveBinaryFmt, err)
	}
	if notice != nil {
		notice(messages.PrivilegeElevating)
	}
	sudoArgs := append([]string{binary}, args...)
	code, err := sys.RunCommand(sudoPath, sudoArgs)
	if err != nil {
		return fmt.Errorf(messages.PrivilegeReExecFmt, err)
	}
	exit(code)
	return nil
}
