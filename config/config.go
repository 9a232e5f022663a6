// Package config loads segarr.yaml and resolves the cache directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/thiremani/segarr/compiler"
	"gopkg.in/yaml.v3"
)

const (
	FileName      = "segarr.yaml"
	DefaultOutput = "segarr_gen.go"
	CacheEnv      = "SEGCACHE"
)

// Config holds the generator settings for one directory of .seg files.
type Config struct {
	Package string `yaml:"package"`
	Output  string `yaml:"output"`
	IR      string `yaml:"ir"`
	Module  string `yaml:"module"`
	Header  string `yaml:"header"`
	MaxLen  int    `yaml:"max_len"`
}

// Default returns the settings used when dir has no segarr.yaml. The
// package comes from $GOPACKAGE under go generate, else the directory name.
func Default(dir string) Config {
	pkg := os.Getenv("GOPACKAGE")
	if pkg == "" {
		pkg = packageFromDir(dir)
	}
	return Config{
		Package: pkg,
		Output:  DefaultOutput,
		Module:  pkg,
	}
}

func packageFromDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	name := strings.ToLower(filepath.Base(abs))
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' || r == ' ' {
			return '_'
		}
		return r
	}, name)
	if compiler.ValidatePackage(name) != nil {
		return "main"
	}
	return name
}

// Load reads the config for dir. An explicit path must exist; otherwise
// dir/segarr.yaml is used when present. Fields left empty in the file keep
// their defaults.
func Load(dir, path string) (Config, error) {
	cfg := Default(dir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	file := Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if file.Package != "" {
		cfg.Package = file.Package
		cfg.Module = file.Package
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.IR != "" {
		cfg.IR = file.IR
	}
	if file.Module != "" {
		cfg.Module = file.Module
	}
	if file.Header != "" {
		cfg.Header = file.Header
	}
	if file.MaxLen != 0 {
		cfg.MaxLen = file.MaxLen
	}
	return nil
}

// Validate checks the settings before any generation runs.
func (c Config) Validate() error {
	if err := compiler.ValidatePackage(c.Package); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if filepath.Ext(c.Output) != ".go" {
		return fmt.Errorf("output %q must be a .go file", c.Output)
	}
	if c.IR != "" {
		if err := compiler.ValidateModulePath(c.Module); err != nil {
			return fmt.Errorf("module %q: %w", c.Module, err)
		}
	}
	if c.MaxLen < 0 {
		return fmt.Errorf("max_len must not be negative, got %d", c.MaxLen)
	}
	return nil
}

// CacheDir returns $SEGCACHE, or the per-user cache directory for the OS.
func CacheDir() string {
	if env := os.Getenv(CacheEnv); env != "" {
		return env
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "segarr")
		}
		return filepath.Join(homeDir, "AppData", "Local", "segarr")

	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "segarr")

	default: // Linux and others
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "segarr")
		}
		return filepath.Join(homeDir, ".cache", "segarr")
	}
}
