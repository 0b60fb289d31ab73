package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/tinyui/pkg/core"
	tinyerrors "github.com/go-drift/tinyui/pkg/errors"
)

// FileName is the optional project configuration file.
const FileName = "tinyui.yaml"

// Environment variables that override the file.
const (
	EnvHookCheck  = "TINYUI_HOOK_CHECK"
	EnvReentrancy = "TINYUI_REENTRANCY"
	EnvLogLevel   = "TINYUI_LOG_LEVEL"
	EnvLogFormat  = "TINYUI_LOG_FORMAT"
	EnvDebugAddr  = "TINYUI_DEBUG_ADDR"
)

// Config represents the optional tinyui.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Log     LogConfig     `yaml:"log"`
	Debug   DebugConfig   `yaml:"debug"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// RuntimeConfig contains render runtime policies.
type RuntimeConfig struct {
	HookCheck  string `yaml:"hook_check,omitempty"`
	Reentrancy string `yaml:"reentrancy,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// DebugConfig contains debug server settings.
type DebugConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	HookCheck  core.HookCheck
	Reentrancy core.Reentrancy
	LogLevel   slog.Level
	LogFormat  string
	Verbose    bool
	DebugAddr  string
}

// LoadOptional reads tinyui.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Resolve loads configuration for dir and resolves defaults. path, when not
// empty, names the config file explicitly and must exist. Values from a
// .env file in dir and from the process environment override the file,
// with the process environment taking precedence.
func Resolve(dir, path string) (*Resolved, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = LoadFile(path)
	} else {
		cfg, err = LoadOptional(dir)
	}
	if err != nil {
		return nil, err
	}

	env, err := loadEnv(dir)
	if err != nil {
		return nil, err
	}
	override(&cfg.Runtime.HookCheck, env, EnvHookCheck)
	override(&cfg.Runtime.Reentrancy, env, EnvReentrancy)
	override(&cfg.Log.Level, env, EnvLogLevel)
	override(&cfg.Log.Format, env, EnvLogFormat)
	override(&cfg.Debug.Addr, env, EnvDebugAddr)

	modulePath := modulePath(dir)
	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	hookCheck, err := core.ParseHookCheck(cfg.Runtime.HookCheck)
	if err != nil {
		return nil, err
	}
	reentrancy, err := core.ParseReentrancy(cfg.Runtime.Reentrancy)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	switch format {
	case "":
		format = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log.format %q: must be text or json", cfg.Log.Format)
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		HookCheck:  hookCheck,
		Reentrancy: reentrancy,
		LogLevel:   level,
		LogFormat:  format,
		Verbose:    cfg.Log.Verbose,
		DebugAddr:  strings.TrimSpace(cfg.Debug.Addr),
	}, nil
}

// NewLogger builds the structured logger described by r.
func (r *Resolved) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: r.LogLevel}
	if r.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RuntimeOptions returns the core options described by r.
func (r *Resolved) RuntimeOptions(logger *slog.Logger) []core.Option {
	return []core.Option{
		core.WithLogger(logger),
		core.WithErrorHandler(&tinyerrors.LogHandler{Logger: logger, Verbose: r.Verbose}),
		core.WithHookCheck(r.HookCheck),
		core.WithReentrancy(r.Reentrancy),
	}
}

// loadEnv merges dir/.env under the process environment. A missing .env
// file is not an error.
func loadEnv(dir string) (map[string]string, error) {
	env, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
		env = make(map[string]string)
	}
	for _, key := range []string{EnvHookCheck, EnvReentrancy, EnvLogLevel, EnvLogFormat, EnvDebugAddr} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func override(field *string, env map[string]string, key string) {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		*field = v
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}

// modulePath returns the module path from dir/go.mod, or "" when there is
// no readable go.mod.
func modulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "tinyui_app"
	}
	return base
}
