package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every per-user directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	return root
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Load(flag.NewFlagSet("sticky", flag.ContinueOnError), args)
}

func TestLoadDefaults(t *testing.T) {
	root := isolate(t)

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "data", AppName), cfg.DataDir)
	assert.Equal(t, filepath.Join(root, ".sticky"), cfg.LegacyDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(cfg.DataDir, "sticky.log"), cfg.LogFile)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.ShowVersion)
}

func TestLoadDataDirFallsBackToLocalShare(t *testing.T) {
	root := isolate(t)
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".local", "share", AppName), dir)
}

func TestLoadUserConfigFile(t *testing.T) {
	root := isolate(t)
	writeConfig(t, filepath.Join(root, "config", AppName, "config.toml"), `
data_dir = "~/todos"
log_level = "DEBUG"
log_file = "/var/tmp/sticky.log"
`)

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "todos"), cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/tmp/sticky.log", cfg.LogFile)
	assert.Equal(t, filepath.Join(root, "config", AppName, "config.toml"), cfg.ConfigFile)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "custom.toml")
	writeConfig(t, path, `
data_dir = "/from/file"
log_level = "warn"
`)

	cfg, err := load(t, "-config", path, "-data-dir", "/from/flag", "-version")
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/from/flag", "sticky.log"), cfg.LogFile)
	assert.True(t, cfg.ShowVersion)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit config file missing", func(t *testing.T) {
		root := isolate(t)
		_, err := load(t, "-config", filepath.Join(root, "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed config file", func(t *testing.T) {
		root := isolate(t)
		writeConfig(t, filepath.Join(root, "config", AppName, "config.toml"), "data_dir = [")
		_, err := load(t)
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		isolate(t)
		fs := flag.NewFlagSet("sticky", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		_, err := Load(fs, []string{"-bogus"})
		assert.Error(t, err)
	})
}

func TestExpandPath(t *testing.T) {
	root := isolate(t)
	t.Setenv("STICKY_TEST_DIR", "/opt/sticky")

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, root, expandPath("~"))
	assert.Equal(t, filepath.Join(root, "x", "y"), expandPath("~/x/y"))
	assert.Equal(t, "/opt/sticky/data", expandPath("$STICKY_TEST_DIR/data"))
	assert.Equal(t, "relative/dir", expandPath("relative/dir"))
}
