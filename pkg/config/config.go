// Package config loads fman configuration: embedded defaults, then the
// user's config file, then FMAN_* environment variables, each layer
// overriding the previous one.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Config is the root configuration structure
type Config struct {
	History HistoryConfig `koanf:"history"`
	Copy    CopyConfig    `koanf:"copy"`
	Execute ExecuteConfig `koanf:"execute"`
	Staging StagingConfig `koanf:"staging"`
}

// HistoryConfig bounds the undo stack
type HistoryConfig struct {
	Capacity int `koanf:"capacity"`
}

// CopyConfig controls copy streaming and collision policy
type CopyConfig struct {
	ChunkSize int64  `koanf:"chunk_size"`
	Overwrite string `koanf:"overwrite"`
}

// ExecuteConfig controls batch behavior
type ExecuteConfig struct {
	StopOnFirstError bool `koanf:"stop_on_first_error"`
}

// StagingConfig controls the delete staging area
type StagingConfig struct {
	Dir string `koanf:"dir"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load builds the effective configuration for the given path set.
func Load(p *paths.Paths) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	// 2. User config file, TOML or YAML depending on what exists
	if path, parser := findUserConfig(p); path != "" {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
	}

	// 3. Environment: FMAN_HISTORY_CAPACITY -> history.capacity
	err := k.Load(env.Provider("FMAN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FMAN_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	// Resolve the staging dir against the path set when unset
	if cfg.Staging.Dir == "" {
		cfg.Staging.Dir = p.TrashDir()
	}

	return &cfg, nil
}

func findUserConfig(p *paths.Paths) (string, koanf.Parser) {
	tomlPath := p.ConfigFile()
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, toml.Parser()
	}
	yamlPath := filepath.Join(p.ConfigDir(), "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, yaml.Parser()
	}
	return "", nil
}

func validate(cfg *Config) error {
	if cfg.History.Capacity < 0 {
		return errors.Newf(errors.ErrConfigValid, "history.capacity must not be negative, got %d", cfg.History.Capacity)
	}
	if cfg.Copy.ChunkSize < 0 {
		return errors.Newf(errors.ErrConfigValid, "copy.chunk_size must not be negative, got %d", cfg.Copy.ChunkSize)
	}
	switch cfg.Copy.Overwrite {
	case "never", "always":
	default:
		return errors.Newf(errors.ErrConfigValid, "copy.overwrite must be \"never\" or \"always\", got %q", cfg.Copy.Overwrite)
	}
	return nil
}
