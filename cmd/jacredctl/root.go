package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jacredctl/internal/config"
	"jacredctl/internal/cron"
	"jacredctl/internal/deploy"
	"jacredctl/internal/lifecycle"
	"jacredctl/internal/logging"
	"jacredctl/internal/messages"
	"jacredctl/internal/pkginstall"
	"jacredctl/internal/privilege"
	"jacredctl/internal/sysd"
	"jacredctl/internal/workspace"
)

var resolveSettings = config.Resolve
var ensureElevatedFunc = privilege.EnsureElevated
var runOperationFunc = runOperation
var invokingUserFunc = func() string {
	return privilege.InvokingUser(privilege.RealSystem{})
}
var osExit = os.Exit

// newRootCmd builds the root command. cliArgs is the original invocation
// (minus the program name), replayed verbatim when the command re-executes
// itself under sudo; exit receives the elevated child's status. Flag and
// settings validation run before the privilege gate, so a bad invocation is
// rejected without ever prompting for a password.
func newRootCmd(cliArgs []string, exit func(int)) *cobra.Command {
	var update bool
	var remove bool
	var noDownloadDB bool
	var configPath string

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if update && remove {
				return errors.New(messages.RootConflictingOperations)
			}
			op := lifecycle.OpInstall
			switch {
			case update:
				op = lifecycle.OpUpdate
			case remove:
				op = lifecycle.OpRemove
			}
			if cmd.Flags().Changed("no-download-db") && op != lifecycle.OpInstall {
				return fmt.Errorf(messages.RootInstallOnlyFlagFmt, op)
			}

			settings, err := resolveSettings(configPath)
			if err != nil {
				return err
			}

			dispatched := false
			childExit := func(code int) {
				dispatched = true
				exit(code)
			}
			notice := func(msg string) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "jacredctl: "+msg)
			}
			if err := ensureElevatedFunc(privilege.RealSystem{}, cliArgs, notice, childExit); err != nil {
				return err
			}
			if dispatched {
				return nil
			}

			intent := lifecycle.Intent{
				Operation:        op,
				DownloadDatabase: op == lifecycle.OpInstall && !noDownloadDB,
				InvokingUser:     invokingUserFunc(),
			}
			return runOperationFunc(cmd, settings, intent)
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, messages.RootFlagUpdate)
	cmd.Flags().BoolVar(&remove, "remove", false, messages.RootFlagRemove)
	cmd.Flags().BoolVar(&noDownloadDB, "no-download-db", false, messages.RootFlagNoDownloadDB)
	cmd.Flags().StringVar(&configPath, "config", "", messages.RootFlagConfig)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_, _ = fmt.Fprint(c.ErrOrStderr(), c.UsageString())
		return err
	})

	return cmd
}

// runOperation wires the production host surfaces into an orchestrator and
// runs the requested operation. Workspace scratch space is released on normal
// return and on SIGINT/SIGTERM.
func runOperation(cmd *cobra.Command, settings config.Settings, intent lifecycle.Intent) error {
	ws := &workspace.Workspace{}
	stop := ws.ReleaseOnSignal(osExit)
	defer stop()
	defer ws.Release()

	log := &logging.Logger{
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
		Color: term.IsTerminal(int(os.Stderr.Fd())),
	}
	return buildOrchestrator(settings, log, ws).Run(cmd.Context(), intent)
}

// buildOrchestrator assembles the production dependency set.
func buildOrchestrator(settings config.Settings, log *logging.Logger, ws *workspace.Workspace) *lifecycle.Orchestrator {
	return &lifecycle.Orchestrator{
		Settings: settings,
		Log:      log,
		System:   lifecycle.RealSystem{},
		Packages: pkginstall.NewInstaller(pkginstall.ExecRunner{Stdout: log.Out, Stderr: log.Err}, ws),
		Deployer: deploy.NewDeployer(ws),
		Services: sysd.NewSystemd(sysd.ExecRunner{Stdout: log.Out, Stderr: log.Err}, log.Infof),
		Cron:     cron.NewCrontab(cron.ExecRunner{Stderr: log.Err}, log.Infof),
	}
}
