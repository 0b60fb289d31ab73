package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tinyui/pkg/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHookCheck, EnvReentrancy, EnvLogLevel, EnvLogFormat, EnvDebugAddr} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadOptional_Parses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
app:
  name: counter
runtime:
  hook_check: strict
  reentrancy: reject
log:
  level: debug
  format: json
  verbose: true
debug:
  addr: 127.0.0.1:9999
`)

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, "counter", cfg.App.Name)
	assert.Equal(t, "strict", cfg.Runtime.HookCheck)
	assert.Equal(t, "reject", cfg.Runtime.Reentrancy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, "127.0.0.1:9999", cfg.Debug.Addr)
}

func TestLoadOptional_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "app: [unterminated\n")

	_, err := LoadOptional(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse tinyui.yaml")
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/apps/clicker/v2\n\ngo 1.24\n")

	r, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "example.com/apps/clicker/v2", r.ModulePath)
	assert.Equal(t, "clicker", r.AppName)
	assert.Equal(t, core.HookCheckWarn, r.HookCheck)
	assert.Equal(t, core.ReentrancyNest, r.Reentrancy)
	assert.Equal(t, slog.LevelInfo, r.LogLevel)
	assert.Equal(t, "text", r.LogFormat)
	assert.Empty(t, r.DebugAddr)
}

func TestResolve_NoModule(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, os.Mkdir(dir, 0o755))

	r, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Empty(t, r.ModulePath)
	assert.Equal(t, "scratch", r.AppName)
}

func TestResolve_ExplicitPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, dir, "custom.yaml", "app:\n  name: custom\n")

	r, err := Resolve(dir, path)
	require.NoError(t, err)
	assert.Equal(t, "custom", r.AppName)

	_, err = Resolve(dir, filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, "runtime:\n  hook_check: off\nlog:\n  level: warn\n")
	writeFile(t, dir, ".env", "TINYUI_HOOK_CHECK=strict\nTINYUI_DEBUG_ADDR=:7070\n")

	r, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, core.HookCheckStrict, r.HookCheck)
	assert.Equal(t, ":7070", r.DebugAddr)
	assert.Equal(t, slog.LevelWarn, r.LogLevel)

	t.Setenv(EnvHookCheck, "warn")
	t.Setenv(EnvLogLevel, "error")
	r, err = Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, core.HookCheckWarn, r.HookCheck, "process env wins over .env")
	assert.Equal(t, slog.LevelError, r.LogLevel)
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"hook check", "runtime:\n  hook_check: loud\n", "invalid hook check"},
		{"reentrancy", "runtime:\n  reentrancy: queue\n", "invalid reentrancy"},
		{"level", "log:\n  level: chatty\n", "invalid log.level"},
		{"format", "log:\n  format: xml\n", "invalid log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)

			_, err := Resolve(dir, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolved_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	r := &Resolved{LogLevel: slog.LevelInfo, LogFormat: "json"}
	logger := r.NewLogger(&buf)

	logger.Debug("hidden")
	logger.Info("shown", slog.String("component", "Counter"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"Counter"`)
}

func TestResolved_RuntimeOptions(t *testing.T) {
	r := &Resolved{HookCheck: core.HookCheckStrict, Reentrancy: core.ReentrancyReject}
	rt := core.NewRuntime(r.RuntimeOptions(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))...)
	require.NotNil(t, rt)
	assert.Len(t, r.RuntimeOptions(nil), 4)
}
