// Package config resolves heist configuration from defaults, JSONC config
// files, environment variables and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/tailscale/hujson"
)

// Errors returned while loading configuration.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data_dir cannot be empty")
	ErrInvalidLogLevel    = errors.New("invalid log_level (must be off, debug, info, warn or error)")
	ErrInvalidDelay       = errors.New("search_delay_ms cannot be negative")
	ErrInvalidEnv         = errors.New("invalid environment override")
)

// FileName is the project config file name.
const FileName = ".heist.json"

// EnvPrefix prefixes every environment override, e.g. HEIST_DATA_DIR.
const EnvPrefix = "HEIST_"

// LogLevels accepted by log_level.
var LogLevels = []string{"off", "debug", "info", "warn", "error"}

// Config holds all configuration options.
type Config struct {
	DataDir       string `env:"DATA_DIR"`
	LogLevel      string `env:"LOG_LEVEL"`
	SearchDelayMS int    `env:"SEARCH_DELAY_MS"`
	// Seed fixes the game's random source. Zero means a fresh seed per run.
	Seed uint64 `env:"SEED"`

	// Resolved (computed)
	EffectiveCwd string
	DataDirAbs   string

	Sources Sources
}

// Sources tracks where configuration came from.
type Sources struct {
	Global  string
	Project string
	// Env lists the environment variables that overrode file values.
	Env []string
}

// fileConfig is the on-disk shape. Pointers distinguish "absent" from zero.
type fileConfig struct {
	DataDir       *string `json:"data_dir"`
	LogLevel      *string `json:"log_level"`
	SearchDelayMS *int    `json:"search_delay_ms"`
	Seed          *uint64 `json:"seed"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:       ".heist",
		LogLevel:      "off",
		SearchDelayMS: 800,
	}
}

// Overrides are command-line values. Nil fields are not set.
type Overrides struct {
	DataDir       *string
	SearchDelayMS *int
	Seed          *uint64
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd; empty means os.Getwd()
	ConfigPath      string            // -c/--config
	Overrides       Overrides         // command-line flags
	Env             map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/heist/config.json or ~/.config/heist/config.json)
// 3. Project config (.heist.json) or the explicit -c file
// 4. HEIST_* environment variables
// 5. Command-line overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if globalPath := globalConfigPath(input.Env); globalPath != "" {
		fc, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, fc)
			cfg.Sources.Global = globalPath
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false
	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
	}

	fc, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fc)
		cfg.Sources.Project = projectPath
	}

	if err := applyEnv(&cfg, input.Env); err != nil {
		return Config{}, err
	}

	applyOverrides(&cfg, input.Overrides)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	cfg.DataDirAbs = cfg.DataDir
	if !filepath.IsAbs(cfg.DataDirAbs) {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDirAbs)
	}

	return cfg, nil
}

// Validate checks value constraints.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	if cfg.SearchDelayMS < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDelay, cfg.SearchDelayMS)
	}

	return nil
}

// Format renders cfg as key=value lines.
func Format(cfg Config) []string {
	lines := []string{
		"effective_cwd=" + cfg.EffectiveCwd,
		"data_dir=" + cfg.DataDirAbs,
		"log_level=" + cfg.LogLevel,
		"search_delay_ms=" + strconv.Itoa(cfg.SearchDelayMS),
	}

	if cfg.Seed != 0 {
		lines = append(lines, "seed="+strconv.FormatUint(cfg.Seed, 10))
	}

	return lines
}

// globalConfigPath returns the global config file path, or "" if neither
// XDG_CONFIG_HOME nor HOME is set.
func globalConfigPath(environ map[string]string) string {
	if xdg := environ["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "heist", "config.json")
	}

	if home := environ["HOME"]; home != "" {
		return filepath.Join(home, ".config", "heist", "config.json")
	}

	return ""
}

// loadFile reads a config file. Missing optional files are not an error.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}

			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if fc.DataDir != nil && *fc.DataDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDataDirEmpty)
	}

	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig

	if err := json.Unmarshal(standardized, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.DataDir != nil {
		base.DataDir = *overlay.DataDir
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	if overlay.SearchDelayMS != nil {
		base.SearchDelayMS = *overlay.SearchDelayMS
	}

	if overlay.Seed != nil {
		base.Seed = *overlay.Seed
	}

	return base
}

// applyEnv overlays HEIST_* variables from environ. Fields without a
// matching variable keep their current value.
func applyEnv(cfg *Config, environ map[string]string) error {
	// A nil Environment makes env fall back to the process environment.
	if environ == nil {
		environ = map[string]string{}
	}

	err := env.ParseWithOptions(cfg, env.Options{
		Environment: environ,
		Prefix:      EnvPrefix,
		OnSet: func(key string, _ any, isDefault bool) {
			if _, ok := environ[key]; ok && !isDefault && !slices.Contains(cfg.Sources.Env, key) {
				cfg.Sources.Env = append(cfg.Sources.Env, key)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnv, err)
	}

	return nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}

	if o.SearchDelayMS != nil {
		cfg.SearchDelayMS = *o.SearchDelayMS
	}

	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
}
