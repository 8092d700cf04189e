package messages

// Lifecycle orchestration messages. Step lines are logged one per action so
// the transcript reads as a single-column audit of what changed on the host.
const (
	LifecycleInstallStarted  = "installing jacred"
	LifecycleUpdateStarted   = "updating jacred"
	LifecycleRemoveStarted   = "removing jacred"
	LifecycleInstallComplete = "install complete"
	LifecycleUpdateComplete  = "update complete"
	LifecycleRemoveComplete  = "remove complete"

	LifecycleStepPrerequisites = "installing prerequisite packages"
	LifecycleStepRuntime       = "installing .NET runtime"
	LifecycleStepDeployApp     = "deploying application archive"
	LifecycleStepUnit          = "installing service unit"
	LifecycleStepCron          = "registering database save cron entry"
	LifecycleStepDatabase      = "downloading initial database"
	LifecycleStepDatabaseSkip  = "database download disabled; skipping"
	LifecycleStepStart         = "starting service"
	LifecycleStepStop          = "stopping service"
	LifecycleStepSaveSignal    = "asking running instance to save its database"

	LifecycleSaveSignalFailedFmt = "save signal not delivered (instance may be stopped): %v"

	LifecycleNotInstalledFmt      = "jacred is not installed (no install root at %s)"
	LifecycleRuntimeMissingFmt    = "runtime binary %q not found after installation"
	LifecycleInstallRootStatFmt   = "check install root %s: %w"
	LifecycleRemoveInstallRootFmt = "remove install root %s: %w"
	LifecycleInstallRootAbsentFmt = "install root %s already absent"
	LifecycleWriteAppConfigFmt    = "write application config %s: %w"

	LifecyclePrerequisitesFmt  = "install prerequisite packages: %w"
	LifecycleRuntimeFmt        = "install runtime: %w"
	LifecycleDeployAppFmt      = "deploy application: %w"
	LifecycleDeployDatabaseFmt = "deploy database: %w"
	LifecycleServiceFmt        = "service %s: %w"
	LifecycleCronFmt           = "cron entry for %s: %w"
)
