// Package config loads sticky's settings from defaults, an optional TOML
// file and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// AppName names the data, config and legacy directories.
const AppName = "sticky"

const (
	DefaultLogLevel = "info"
	configFileName  = "config.toml"
	logFileName     = "sticky.log"
)

// Config holds the resolved settings.
type Config struct {
	DataDir   string `toml:"data_dir"`
	LegacyDir string `toml:"legacy_dir"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`

	// ConfigFile is the file that was read, empty if none existed.
	ConfigFile string `toml:"-"`
	// ShowVersion is set by -version.
	ShowVersion bool `toml:"-"`
}

// Load resolves configuration:
//  1. defaults
//  2. config file (-config, or the per-user config dir)
//  3. CLI flags
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	var (
		configPath string
		dataDir    string
		logLevel   string
		version    bool
	)
	fset.StringVar(&configPath, "config", "", "path to config file")
	fset.StringVar(&dataDir, "data-dir", "", "directory holding todos.json")
	fset.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fset.BoolVar(&version, "version", false, "print version and exit")
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg, err := defaults()
	if err != nil {
		return nil, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigFile()
	}
	if configPath != "" {
		if err := loadFile(cfg, expandPath(configPath), explicit); err != nil {
			return nil, err
		}
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = dataDir
		case "log-level":
			cfg.LogLevel = logLevel
		}
	})
	cfg.ShowVersion = version

	finalize(cfg)
	return cfg, nil
}

func defaults() (*Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}
	legacyDir, err := DefaultLegacyDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DataDir:   dataDir,
		LegacyDir: legacyDir,
		LogLevel:  DefaultLogLevel,
	}, nil
}

// loadFile decodes path over cfg. A missing file is only an error when it was
// asked for explicitly.
func loadFile(cfg *Config, path string, explicit bool) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

func finalize(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.LegacyDir = expandPath(cfg.LegacyDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// DefaultDataDir returns the per-user application data directory, using the
// XDG data directory or falling back to ~/.local/share.
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName), nil
}

// DefaultLegacyDir returns the dot-directory earlier versions stored data in.
func DefaultLegacyDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

func defaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName, configFileName)
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	return expanded
}
