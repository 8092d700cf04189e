// Package cron keeps a single exact-match maintenance entry in a user's
// crontab. Membership is byte-for-byte line equality; the whole task list is
// rewritten on every mutation.
package cron

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"jacredctl/internal/messages"
)

// ErrNoCrontab reports that the identity has no crontab yet. Runners return
// it so a missing task list reads as empty instead of as a failure.
var ErrNoCrontab = errors.New("no crontab for identity")

// Manager abstracts the scheduled-task store.
type Manager interface {
	EnsurePresent(identity string, entry string) error
	EnsureAbsent(identity string, entry string) error
}

// Runner runs the crontab command, capturing output or feeding input.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
	RunWithInput(input []byte, name string, args ...string) error
}

// ExecRunner implements Runner against the host crontab binary.
type ExecRunner struct {
	Stderr io.Writer
}

// Output runs name with args and returns its stdout. A nonzero exit whose
// stderr says "no crontab" is mapped to ErrNoCrontab; other failures keep
// their stderr forwarded to r.Stderr.
func (r ExecRunner) Output(name string, args ...string) ([]byte, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if bytes.Contains(bytes.ToLower(exitErr.Stderr), []byte("no crontab")) {
				return nil, ErrNoCrontab
			}
			if r.Stderr != nil {
				_, _ = r.Stderr.Write(exitErr.Stderr)
			}
		}
		return nil, err
	}
	return out, nil
}

// RunWithInput runs name with args, feeding input on stdin.
func (r ExecRunner) RunWithInput(input []byte, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Crontab is the production Manager. Root operates on its own crontab; any
// other identity goes through crontab's -u impersonation, which requires the
// caller to already be root.
type Crontab struct {
	Runner  Runner
	LockDir string
	// Infof receives no-op notices (entry already present/absent). Nil
	// disables them.
	Infof func(format string, args ...any)
}

// NewCrontab returns a Crontab manager with locks under the system temp dir.
func NewCrontab(runner Runner, infof func(format string, args ...any)) *Crontab {
	return &Crontab{
		Runner:  runner,
		LockDir: os.TempDir(),
		Infof:   infof,
	}
}

// EnsurePresent appends entry to identity's task list unless an existing
// line is byte-identical to it.
func (c *Crontab) EnsurePresent(identity string, entry string) error {
	return c.withIdentityLock(identity, func() error {
		lines, err := c.read(identity)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line == entry {
				c.notice(messages.CronEntryPresentFmt, identity)
				return nil
			}
		}
		return c.write(identity, append(lines, entry))
	})
}

// EnsureAbsent removes every line byte-identical to entry from identity's
// task list. An absent entry is a logged no-op.
func (c *Crontab) EnsureAbsent(identity string, entry string) error {
	return c.withIdentityLock(identity, func() error {
		lines, err := c.read(identity)
		if err != nil {
			return err
		}
		remaining := lines[:0:0]
		for _, line := range lines {
			if line != entry {
				remaining = append(remaining, line)
			}
		}
		if len(remaining) == len(lines) {
			c.notice(messages.CronEntryAbsentFmt, identity)
			return nil
		}
		return c.write(identity, remaining)
	})
}

// read returns identity's current task list. A missing crontab reads as an
// empty list; any other read failure is propagated so a later write cannot
// clobber entries that were merely unreadable.
func (c *Crontab) read(identity string) ([]string, error) {
	out, err := c.Runner.Output("crontab", identityArgs(identity, "-l")...)
	if err != nil {
		if errors.Is(err, ErrNoCrontab) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.CronListFmt, identity, err)
	}
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (c *Crontab) write(identity string, lines []string) error {
	var input []byte
	if len(lines) > 0 {
		input = []byte(strings.Join(lines, "\n") + "\n")
	}
	if err := c.Runner.RunWithInput(input, "crontab", identityArgs(identity, "-")...); err != nil {
		return fmt.Errorf(messages.CronWriteFmt, identity, err)
	}
	return nil
}

func (c *Crontab) withIdentityLock(identity string, fn func() error) error {
	lockPath := filepath.Join(c.LockDir, "jacredctl-crontab-"+identity+".lock")
	return withFileLock(lockPath, fn)
}

func (c *Crontab) notice(format string, args ...any) {
	if c.Infof != nil {
		c.Infof(format, args...)
	}
}

// identityArgs builds crontab arguments: root operates in its own context,
// everyone else through -u impersonation.
func identityArgs(identity string, trailing string) []string {
	if identity == "root" {
		return []string{trailing}
	}
	return []string{"-u", identity, trailing}
}
