// Package lifecycle sequences the install, update, and remove operations
// against the host. Each sequence logs one line per step so a transcript
// reads as an audit of what changed.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"jacredctl/internal/config"
	"jacredctl/internal/logging"
	"jacredctl/internal/messages"
	"jacredctl/internal/sysd"
)

// PackageInstaller provisions OS packages and the application runtime.
type PackageInstaller interface {
	Prerequisites(packages []string) error
	Runtime(bootstrapURL string) error
	RuntimePath(binary string) (string, error)
}

// Deployer fetches an archive and unpacks it into the install root.
type Deployer interface {
	Deploy(ctx context.Context, sourceURL string, destRoot string) error
}

// CronManager maintains the per-user maintenance entry.
type CronManager interface {
	EnsurePresent(identity string, entry string) error
	EnsureAbsent(identity string, entry string) error
}

// Orchestrator runs lifecycle operations over the injected host surfaces.
type Orchestrator struct {
	Settings config.Settings
	Log      *logging.Logger
	System   System
	Packages PackageInstaller
	Deployer Deployer
	Services sysd.Manager
	Cron     CronManager
}

// Run executes the sequence selected by intent.
func (o *Orchestrator) Run(ctx context.Context, intent Intent) error {
	switch intent.Operation {
	case OpInstall:
		return o.install(ctx, intent)
	case OpUpdate:
		return o.update(ctx)
	case OpRemove:
		return o.remove(intent)
	}
	return fmt.Errorf("unknown operation %d", intent.Operation)
}

// install provisions the host from scratch: packages, runtime, application,
// unit, cron entry, optional database, then starts the service. An existing
// installation is overwritten in place; files outside the release archive
// (notably Data/) survive.
func (o *Orchestrator) install(ctx context.Context, intent Intent) error {
	s := o.Settings
	o.Log.Infof(messages.LifecycleInstallStarted)

	o.Log.Infof(messages.LifecycleStepPrerequisites)
	if err := o.Packages.Prerequisites(s.Runtime.Packages); err != nil {
		return fmt.Errorf(messages.LifecyclePrerequisitesFmt, err)
	}

	o.Log.Infof(messages.LifecycleStepRuntime)
	if err := o.Packages.Runtime(s.URLs.RuntimeBootstrap); err != nil {
		return fmt.Errorf(messages.LifecycleRuntimeFmt, err)
	}
	runtimePath, err := o.Packages.RuntimePath(s.Runtime.Binary)
	if err != nil {
		return fmt.Errorf(messages.LifecycleRuntimeMissingFmt, s.Runtime.Binary)
	}

	o.Log.Infof(messages.LifecycleStepDeployApp)
	if err := o.Deployer.Deploy(ctx, s.URLs.Release, s.InstallRoot); err != nil {
		return fmt.Errorf(messages.LifecycleDeployAppFmt, err)
	}
	if err := o.System.MkdirAll(s.DataDir(), 0o755); err != nil {
		return fmt.Errorf(messages.LifecycleDeployAppFmt, err)
	}
	if err := o.writeAppConfig(); err != nil {
		return err
	}

	o.Log.Infof(messages.LifecycleStepUnit)
	desc := sysd.UnitDescriptor{
		Name:             s.ServiceName,
		Description:      "JacRed torrent indexer",
		WorkingDirectory: s.InstallRoot,
		ExecStart:        runtimePath + " " + filepath.Join(s.InstallRoot, s.AppAssembly),
	}
	if err := o.Services.InstallUnit(desc); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}
	if err := o.Services.Enable(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}

	o.Log.Infof(messages.LifecycleStepCron)
	if err := o.Cron.EnsurePresent(intent.InvokingUser, s.CronEntry()); err != nil {
		return fmt.Errorf(messages.LifecycleCronFmt, intent.InvokingUser, err)
	}

	if intent.DownloadDatabase {
		o.Log.Infof(messages.LifecycleStepDatabase)
		if err := o.Deployer.Deploy(ctx, s.URLs.Database, s.InstallRoot); err != nil {
			return fmt.Errorf(messages.LifecycleDeployDatabaseFmt, err)
		}
	} else {
		o.Log.Infof(messages.LifecycleStepDatabaseSkip)
	}

	o.Log.Infof(messages.LifecycleStepStart)
	if err := o.Services.Start(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}

	o.Log.Infof(messages.LifecycleInstallComplete)
	return nil
}

// update replaces the application payload of an existing installation. The
// install root must already exist; nothing is touched otherwise. The running
// instance is asked to save its database first, best effort.
func (o *Orchestrator) update(ctx context.Context) error {
	s := o.Settings
	if _, err := o.System.Stat(s.InstallRoot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return precondition(fmt.Errorf(messages.LifecycleNotInstalledFmt, s.InstallRoot))
		}
		return precondition(fmt.Errorf(messages.LifecycleInstallRootStatFmt, s.InstallRoot, err))
	}

	o.Log.Infof(messages.LifecycleUpdateStarted)

	o.Log.Infof(messages.LifecycleStepSaveSignal)
	if err := o.System.SaveSignal(ctx, s.SaveEndpoint()); err != nil {
		o.Log.Warnf(messages.LifecycleSaveSignalFailedFmt, err)
	}

	o.Log.Infof(messages.LifecycleStepStop)
	if err := o.Services.Stop(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}

	o.Log.Infof(messages.LifecycleStepDeployApp)
	if err := o.Deployer.Deploy(ctx, s.URLs.Release, s.InstallRoot); err != nil {
		return fmt.Errorf(messages.LifecycleDeployAppFmt, err)
	}

	o.Log.Infof(messages.LifecycleStepStart)
	if err := o.Services.Start(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}

	o.Log.Infof(messages.LifecycleUpdateComplete)
	return nil
}

// remove tears the installation down. Every step tolerates an already-absent
// target, so remove is safe to re-run and safe after a partial install.
func (o *Orchestrator) remove(intent Intent) error {
	s := o.Settings
	o.Log.Infof(messages.LifecycleRemoveStarted)

	o.Log.Infof(messages.LifecycleStepStop)
	if err := o.Services.Stop(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}
	if err := o.Services.Disable(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}
	if err := o.Services.RemoveUnit(s.ServiceName); err != nil {
		return fmt.Errorf(messages.LifecycleServiceFmt, s.ServiceName, err)
	}

	o.Log.Infof(messages.LifecycleStepCron)
	if err := o.Cron.EnsureAbsent(intent.InvokingUser, s.CronEntry()); err != nil {
		return fmt.Errorf(messages.LifecycleCronFmt, intent.InvokingUser, err)
	}

	if _, err := o.System.Stat(s.InstallRoot); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf(messages.LifecycleInstallRootStatFmt, s.InstallRoot, err)
		}
		o.Log.Infof(messages.LifecycleInstallRootAbsentFmt, s.InstallRoot)
	} else if err := o.System.RemoveAll(s.InstallRoot); err != nil {
		return fmt.Errorf(messages.LifecycleRemoveInstallRootFmt, s.InstallRoot, err)
	}

	o.Log.Infof(messages.LifecycleRemoveComplete)
	return nil
}

// writeAppConfig materializes the application's own config file. An existing
// file is kept: operators tune it in place and reinstall must not clobber it.
func (o *Orchestrator) writeAppConfig() error {
	s := o.Settings
	path := s.AppConfigPath()
	if _, err := o.System.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(messages.LifecycleWriteAppConfigFmt, path, err)
	}
	body := fmt.Sprintf("{\n  \"listenport\": %d\n}\n", s.ListenPort)
	if err := o.System.WriteFileAtomic(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf(messages.LifecycleWriteAppConfigFmt, path, err)
	}
	return nil
}
