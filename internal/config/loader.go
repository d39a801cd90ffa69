package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/expand"

	"github.com/atinylittleshell/gprompt/internal/core"
)

// Environment variables consulted by the loader.
const (
	EnvConfigPath = "GPROMPT_CONFIG"
	EnvLogLevel   = "GPROMPT_LOG_LEVEL"
)

// Loader handles loading and parsing of configuration files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	// Path is the file the configuration was read from, empty when none existed.
	Path   string
	Errors []error
}

// LoadFromFile loads configuration from a YAML file.
// Returns the configuration and any non-fatal errors encountered.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: DefaultConfig(), Errors: []error{}}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := l.LoadFromString(string(content))
	if err != nil {
		return nil, err
	}
	result.Path = path
	l.logger.Debug("loaded config", zap.String("path", path), zap.Int("errors", len(result.Errors)))
	return result, nil
}

// LoadFromString loads configuration from a YAML document.
func (l *Loader) LoadFromString(source string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(source)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
		// Continue with defaults on parse errors
		return result, nil
	}

	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("invalid config: %w", err))
		return result, nil
	}

	result.Config = cfg
	return result, nil
}

// Load resolves the config path from explicit, $GPROMPT_CONFIG or the
// default location, loads it and applies environment overrides.
// It never fails; problems are reported in LoadResult.Errors.
func (l *Loader) Load(explicit string, env expand.Environ) *LoadResult {
	path := explicit
	if path == "" {
		path = env.Get(EnvConfigPath).String()
	}
	if path == "" {
		path = core.ConfigFile()
	}

	result, err := l.LoadFromFile(path)
	if err != nil {
		result = &LoadResult{
			Config: DefaultConfig(),
			Errors: []error{err},
		}
	}

	l.applyEnv(env, result)
	return result
}

// applyEnv applies environment overrides on top of the loaded config.
func (l *Loader) applyEnv(env expand.Environ, result *LoadResult) {
	level := env.Get(EnvLogLevel).String()
	if level == "" {
		return
	}
	previous := result.Config.LogLevel
	result.Config.LogLevel = level
	if _, err := result.Config.Level(); err != nil {
		result.Config.LogLevel = previous
		result.Errors = append(result.Errors, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
}
