package messages

// System messages for internal operations.
const (
	// FsutilCreateTempFileFmt formats temp file creation errors.
	FsutilCreateTempFileFmt = "create temp file for %s: %w"
	FsutilSetPermissionsFmt = "set permissions for %s: %w"
	FsutilWriteTempFileFmt  = "write temp file for %s: %w"
	FsutilSyncTempFileFmt   = "sync temp file for %s: %w"
	FsutilCloseTempFileFmt  = "close temp file for %s: %w"
	FsutilRenameTempFileFmt = "rename temp file for %s: %w"

	// ConfigMissingFileFmt indicates the settings file could not be read.
	ConfigMissingFileFmt      = "read settings file %s: %w"
	ConfigInvalidConfigFmt    = "invalid settings in %s: %w"
	ConfigUnrecognizedKeysFmt = "unrecognized keys in %s: %v."
	ConfigValidationGuidance  = "Fix the settings file and retry."
	ConfigInvalidURLFmt       = "%s: %q is not an absolute http(s) URL"
	ConfigInvalidPortFmt      = "listen_port: %d is outside 1-65535"
	ConfigInvalidRootFmt      = "install_root: %q is not an absolute path"
	ConfigEmptyFieldFmt       = "%s must not be empty"
	ConfigResolveHomeFmt      = "resolve home directory for settings lookup: %w"

	// PrivilegeSudoNotFound indicates sudo is unavailable for re-exec.
	PrivilegeSudoNotFound     = "root privileges are required and sudo was not found in PATH"
	PrivilegeReExecFmt        = "re-exec under sudo: %w"
	PrivilegeResolveBinaryFmt = "resolve current executable: %w"
	PrivilegeElevating        = "root privileges required; re-running under sudo"

	// WorkspaceCreateDirFmt formats scratch directory creation errors.
	WorkspaceCreateDirFmt  = "create scratch dir: %w"
	WorkspaceCreateFileFmt = "create scratch file in %s: %w"

	// PkginstallAptFmt formats package manager invocation failures.
	PkginstallAptFmt            = "apt-get install %s: %w"
	PkginstallFetchBootstrapFmt = "fetch runtime bootstrap script: %w"
	PkginstallRunBootstrapFmt   = "run runtime bootstrap script: %w"

	// SysdWriteUnitFmt formats unit file write errors.
	SysdWriteUnitFmt         = "write unit file %s: %w"
	SysdSerializeUnitFmt     = "serialize unit %s: %w"
	SysdRemoveUnitFmt        = "remove unit file %s: %w"
	SysdUnitAlreadyAbsentFmt = "unit file %s already absent"
	SysdDaemonReloadFmt      = "systemctl daemon-reload: %w"
	SysdActionFmt            = "systemctl %s %s: %w"
	SysdIgnoredActionFmt     = "systemctl %s %s ignored: %v"

	// CronListFmt formats crontab read failures.
	CronListFmt         = "read crontab for %s: %w"
	CronWriteFmt        = "write crontab for %s: %w"
	CronEntryPresentFmt = "cron entry already present for %s"
	CronEntryAbsentFmt  = "cron entry already absent for %s"
	CronOpenLockFmt     = "open lock %s: %w"
	CronLockFmt         = "lock %s: %w"
	CronLockTimeoutFmt  = "timed out waiting for crontab lock after %s"

	// DeployCreateRequestFmt formats archive request construction errors.
	DeployCreateRequestFmt    = "create request for %s: %w"
	DeployDownloadFmt         = "download %s: %w"
	DeployUnexpectedStatusFmt = "download %s: unexpected status %s"
	DeployTooLargeFmt         = "download %s: response too large (%d bytes > limit %d bytes)"
	DeployWriteArchiveFmt     = "write archive for %s: %w"
	DeployOpenArchiveFmt      = "open archive %s: %w"
	DeployReadArchiveFmt      = "read archive %s: %w"
	DeployExtractEntryFmt     = "extract %s: %w"
	DeployUnsafeEntryFmt      = "archive entry %q escapes destination root"
	DeployUnsafeLinkFmt       = "archive link %q points outside destination root"
	DeployCreateDestDirFmt    = "create destination dir %s: %w"
)
