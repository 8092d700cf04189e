package lifecycle

// Operation selects which lifecycle sequence to run.
type Operation int

const (
	OpInstall Operation = iota
	OpUpdate
	OpRemove
)

// String returns the operation's CLI-facing name.
func (op Operation) String() string {
	switch op {
	case OpInstall:
		return "install"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Intent is the fully resolved request handed to the orchestrator.
type Intent struct {
	Operation Operation
	// DownloadDatabase controls the optional initial database fetch during
	// install. It has no effect on update or remove.
	DownloadDatabase bool
	// InvokingUser owns the maintenance cron entry. Under sudo this is the
	// original user, not root.
	InvokingUser string
}
