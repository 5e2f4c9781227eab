// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/htmlindent/pkg/config"
)

// ErrConfig indicates an unreadable, malformed or invalid configuration.
var ErrConfig = errors.New("invalid configuration")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (HTMLINDENT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.htmlindent.{yml,yaml,toml} upward search)
//  5. User config ($XDG_CONFIG_HOME/htmlindent/config.*)
//  6. System config (/etc/htmlindent/config.*)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		skipped bool
	}{
		{name: "system", path: paths.System, skipped: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skipped: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skipped: opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit},
	}

	for _, layer := range layers {
		if layer.skipped || layer.path == "" {
			continue
		}

		cfg, err = loadConfigFile(layer.path, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s config: %w", ErrConfig, layer.name, err)
		}

		validation := ValidateWithFile(cfg, layer.path)
		if !validation.Valid() {
			return nil, fmt.Errorf("%w: %w", ErrConfig, &validation.Errors[0])
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("%w: load environment: %w", ErrConfig, err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrConfig, &validation.Errors[0])
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile decodes the YAML or TOML file at path on top of base and
// returns the result; base is not modified. Keys absent from the file keep
// their base values, so an explicit false in a file overrides a true below.
func loadConfigFile(path string, base *config.Config) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := base.Clone()

	// Slices are decoded fresh and restored when the file leaves them out.
	cfg.Inline, cfg.Block, cfg.Extensions, cfg.Ignore = nil, nil, nil, nil

	if IsTOMLConfig(path) {
		err = decodeTOML(content, cfg)
	} else {
		err = decodeYAML(content, cfg)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Inline == nil {
		cfg.Inline = base.Inline
	}
	if cfg.Block == nil {
		cfg.Block = base.Block
	}
	if cfg.Extensions == nil {
		cfg.Extensions = base.Extensions
	}
	if cfg.Ignore == nil {
		cfg.Ignore = base.Ignore
	}

	if unit, err := config.ParseIndentation(cfg.Indentation); err == nil {
		cfg.Indentation = unit
	} else {
		return nil, fmt.Errorf("indentation: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a single configuration file over the defaults, without
// discovery, environment or validation.
func LoadFile(path string) (*config.Config, error) {
	return loadConfigFile(path, config.NewConfig())
}
