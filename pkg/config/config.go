// Package config loads binpoke's optional configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "BINPOKE_CONFIG"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds user preferences.
type Config struct {
	// Color selects listing colors: auto, always or never.
	Color string `yaml:"color" toml:"color"`

	// Mmap memory-maps files for read-only verbs.
	Mmap bool `yaml:"mmap" toml:"mmap"`

	// Verbosity is the default klog verbosity when -v is not given.
	Verbosity int `yaml:"verbosity" toml:"verbosity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Color: ColorAuto,
		Mmap:  true,
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity may not be negative: %d", c.Verbosity)
	}
	return nil
}

// DefaultPath returns the config path used when none is given: $BINPOKE_CONFIG
// if set, otherwise binpoke/config.yaml under the user config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "binpoke", "config.yaml")
}

// Load reads the config at path over the defaults. Files ending in .toml are
// decoded as TOML, anything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("parsing %s: unknown key %s", path, undecoded[0])
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the config at path. An empty path falls back to DefaultPath,
// and a missing default file yields the defaults. A missing explicit file is
// an error.
func Resolve(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
		explicit = os.Getenv(EnvPath) != ""
	}

	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}
