package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"jacredctl/internal/messages"
)

// SystemSettingsPath is the host-wide settings file location.
const SystemSettingsPath = "/etc/jacredctl/config.toml"

// ErrValidation wraps settings validation failures (as opposed to TOML
// syntax or filesystem errors). Callers can use errors.Is to distinguish.
var ErrValidation = errors.New("settings validation failed")

// Load reads path and overlays it on the defaults. The file must exist.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return Parse(data, path)
}

// Resolve returns the effective settings. An explicit path must exist; with
// no explicit path the system file is used when present, then the invoking
// user's config directory, then built-in defaults.
func Resolve(explicitPath string) (Settings, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}
	candidates, err := candidatePaths()
	if err != nil {
		return Settings{}, err
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return Default(), nil
}

func candidatePaths() ([]string, error) {
	paths := []string{SystemSettingsPath}
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return append(paths, filepath.Join(home, ".config", "jacredctl", "config.toml")), nil
}

// Parse decodes TOML settings data over the defaults and validates the
// result. source is used in error messages.
func Parse(data []byte, source string) (Settings, error) {
	settings := Default()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return Settings{}, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrValidation, source, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrValidation, err)
	}
	return settings, nil
}

// decodeStrict re-decodes the TOML data with unknown-field rejection so
// typos in the settings file fail loudly instead of silently keeping a
// default.
func decodeStrict(data []byte) error {
	var settings Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&settings)
}
