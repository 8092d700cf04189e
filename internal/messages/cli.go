package messages

// CLI strings for the root command.
const (
	RootUse   = "jacredctl"
	RootShort = "Install, update, or remove the jacred service on this host"
	RootLong  = "jacredctl manages the full lifecycle of a jacred installation:\n" +
		"the application files, the .NET runtime dependency, the systemd unit,\n" +
		"and the crontab entry that periodically persists the JSON database.\n\n" +
		"With no flags, jacredctl installs jacred and downloads the initial\n" +
		"database. Exactly one of --update or --remove selects the other\n" +
		"operations."

	RootFlagUpdate       = "update an existing installation in place"
	RootFlagRemove       = "remove the installation, service unit, and cron entry"
	RootFlagNoDownloadDB = "install without downloading the initial database"
	RootFlagConfig       = "path to a jacredctl settings file (TOML)"

	RootConflictingOperations = "--update and --remove are mutually exclusive"
	RootInstallOnlyFlagFmt    = "--no-download-db only applies to install, not %s"

	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
)
