// Package config defines jacredctl settings and their TOML representation.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"jacredctl/internal/messages"
)

// Settings holds everything the lifecycle operations need to know about the
// managed installation. Values not present in the settings file keep their
// defaults.
type Settings struct {
	InstallRoot string  `toml:"install_root"`
	ServiceName string  `toml:"service_name"`
	AppAssembly string  `toml:"app_assembly"`
	ListenPort  int     `toml:"listen_port"`
	URLs        URLs    `toml:"urls"`
	Runtime     Runtime `toml:"runtime"`
	Cron        Cron    `toml:"cron"`
}

// URLs are the remote artifacts consumed during install and update.
type URLs struct {
	Release          string `toml:"release"`
	Database         string `toml:"database"`
	RuntimeBootstrap string `toml:"runtime_bootstrap"`
}

// Runtime describes the application's runtime dependency.
type Runtime struct {
	Binary   string   `toml:"binary"`
	Packages []string `toml:"packages"`
}

// Cron holds the maintenance job schedule.
type Cron struct {
	Schedule string `toml:"schedule"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		InstallRoot: "/opt/jacred",
		ServiceName: "jacred",
		AppAssembly: "JacRed.dll",
		ListenPort:  9117,
		URLs: URLs{
			Release:          "https://github.com/immisterio/JacRed/releases/latest/download/jacred.tar.gz",
			Database:         "https://jacred.xyz/database/latest.tar.gz",
			RuntimeBootstrap: "https://dot.net/v1/dotnet-install.sh",
		},
		Runtime: Runtime{
			Binary:   "dotnet",
			Packages: []string{"curl", "tar", "ca-certificates"},
		},
		Cron: Cron{
			Schedule: "*/40 * * * *",
		},
	}
}

// SaveEndpoint is the local HTTP endpoint that persists the JSON database.
func (s Settings) SaveEndpoint() string {
	return fmt.Sprintf("http://127.0.0.1:%d/jsondb/save", s.ListenPort)
}

// CronEntry is the exact crontab line registered for the invoking user.
// Matching elsewhere is byte-for-byte, so this string must stay stable.
func (s Settings) CronEntry() string {
	return fmt.Sprintf("%s curl -s %q", s.Cron.Schedule, s.SaveEndpoint())
}

// DataDir is the persisted database subtree under the install root.
func (s Settings) DataDir() string {
	return filepath.Join(s.InstallRoot, "Data")
}

// AppConfigPath is the application's own config file inside the install root.
func (s Settings) AppConfigPath() string {
	return filepath.Join(s.InstallRoot, "init.conf")
}

// Validate reports the first structural problem in the settings.
func (s Settings) Validate() error {
	if !filepath.IsAbs(s.InstallRoot) {
		return fmt.Errorf(messages.ConfigInvalidRootFmt, s.InstallRoot)
	}
	if strings.TrimSpace(s.ServiceName) == "" {
		return fmt.Errorf(messages.ConfigEmptyFieldFmt, "service_name")
	}
	if strings.TrimSpace(s.AppAssembly) == "" {
		return fmt.Errorf(messages.ConfigEmptyFieldFmt, "app_assembly")
	}
	if s.ListenPort < 1 || s.ListenPort > 65535 {
		return fmt.Errorf(messages.ConfigInvalidPortFmt, s.ListenPort)
	}
	if strings.TrimSpace(s.Runtime.Binary) == "" {
		return fmt.Errorf(messages.ConfigEmptyFieldFmt, "runtime.binary")
	}
	if strings.TrimSpace(s.Cron.Schedule) == "" {
		return fmt.Errorf(messages.ConfigEmptyFieldFmt, "cron.schedule")
	}
	for field, value := range map[string]string{
		"urls.release":           s.URLs.Release,
		"urls.database":          s.URLs.Database,
		"urls.runtime_bootstrap": s.URLs.RuntimeBootstrap,
	} {
		if err := validateHTTPURL(field, value); err != nil {
			return err
		}
	}
	return nil
}

func validateHTTPURL(field string, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf(messages.ConfigInvalidURLFmt, field, raw)
	}
	return nil
}
