package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jacredctl/internal/config"
	"jacredctl/internal/lifecycle"
	"jacredctl/internal/privilege"
)

type capturedRun struct {
	settings config.Settings
	intent   lifecycle.Intent
	calls    int
	err      error
}

func captureRun(t *testing.T) *capturedRun {
	t.Helper()
	captured := &capturedRun{}
	prev := runOperationFunc
	runOperationFunc = func(cmd *cobra.Command, settings config.Settings, intent lifecycle.Intent) error {
		captured.settings = settings
		captured.intent = intent
		captured.calls++
		return captured.err
	}
	t.Cleanup(func() { runOperationFunc = prev })

	prevUser := invokingUserFunc
	invokingUserFunc = func() string { return "alice" }
	t.Cleanup(func() { invokingUserFunc = prevUser })

	prevElevate := ensureElevatedFunc
	ensureElevatedFunc = func(privilege.System, []string, func(string), func(int)) error {
		return nil
	}
	t.Cleanup(func() { ensureElevatedFunc = prevElevate })
	return captured
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(args, func(int) {})
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootDefaultsToInstallWithDatabase(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t)
	require.NoError(t, err)

	require.Equal(t, 1, captured.calls)
	assert.Equal(t, lifecycle.OpInstall, captured.intent.Operation)
	assert.True(t, captured.intent.DownloadDatabase)
	assert.Equal(t, "alice", captured.intent.InvokingUser)
	assert.Equal(t, config.Default(), captured.settings)
}

func TestRootNoDownloadDB(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "--no-download-db")
	require.NoError(t, err)

	assert.Equal(t, lifecycle.OpInstall, captured.intent.Operation)
	assert.False(t, captured.intent.DownloadDatabase)
}

func TestRootUpdateFlag(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "--update")
	require.NoError(t, err)

	assert.Equal(t, lifecycle.OpUpdate, captured.intent.Operation)
	assert.False(t, captured.intent.DownloadDatabase)
}

func TestRootRemoveFlag(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "--remove")
	require.NoError(t, err)

	assert.Equal(t, lifecycle.OpRemove, captured.intent.Operation)
}

func TestRootUpdateAndRemoveConflict(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "--update", "--remove")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
	assert.Zero(t, captured.calls, "no operation runs on conflicting flags")
}

func TestRootNoDownloadDBIsInstallOnly(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "--update", "--no-download-db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only applies to install")
	assert.Contains(t, err.Error(), "update")
	assert.Zero(t, captured.calls)
}

func TestRootRejectsPositionalArgs(t *testing.T) {
	captured := captureRun(t)

	_, _, err := executeRoot(t, "install")
	require.Error(t, err)
	assert.Zero(t, captured.calls)
}

func TestRootConfigFlagLoadsSettings(t *testing.T) {
	captured := captureRun(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("install_root = \"/srv/jacred\"\n"), 0o644))

	_, _, err := executeRoot(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/jacred", captured.settings.InstallRoot)
	assert.Equal(t, config.Default().ListenPort, captured.settings.ListenPort, "unset keys keep defaults")
}

func TestRootConfigFlagMissingFileFails(t *testing.T) {
	captured := captureRun(t)
	ensureElevatedFunc = func(privilege.System, []string, func(string), func(int)) error {
		t.Error("privilege gate consulted despite an unusable settings file")
		return nil
	}

	_, _, err := executeRoot(t, "--config", filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Zero(t, captured.calls)
}
