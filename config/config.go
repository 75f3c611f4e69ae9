// Package config handles the stackvm.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/stackvm/cpu"
)

// FILENAME is the configuration file searched for by Find.
const FILENAME = "stackvm.toml"

// Config is a stackvm run configuration. Command line flags override it.
type Config struct {
	Mode     string `toml:"mode"`     // "execute" or "debug".
	Strict   bool   `toml:"strict"`   // Unknown opcodes are fatal.
	Verbose  bool   `toml:"verbose"`  // Verbose logging.
	Storage  string `toml:"storage"`  // Secondary storage file.
	Language string `toml:"language"` // Message locale, ie "en-US".

	// Dir is the directory containing the configuration file.
	Dir string `toml:"-"`
}

// Load parses a configuration file.
// A relative storage path is resolved against the file's directory.
func Load(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("cannot read %s: %w", path, err)
		return
	}

	cfg = &Config{}
	err = toml.Unmarshal(data, cfg)
	if err != nil {
		cfg = nil
		err = fmt.Errorf("parse error in %s: %w", path, err)
		return
	}

	_, err = cpu.ParseMode(cfg.Mode)
	if err != nil {
		cfg = nil
		err = fmt.Errorf("%s: %w", path, err)
		return
	}

	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		cfg = nil
		return
	}

	if len(cfg.Storage) != 0 && !filepath.IsAbs(cfg.Storage) {
		cfg.Storage = filepath.Join(cfg.Dir, cfg.Storage)
	}

	return
}

// Find walks up from dir looking for FILENAME, and loads it.
// Returns a nil Config if there is none.
func Find(dir string) (cfg *Config, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return
	}

	for {
		path := filepath.Join(dir, FILENAME)
		if _, serr := os.Stat(path); serr == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// CpuMode returns the configured execution mode.
func (cfg *Config) CpuMode() (mode cpu.Mode) {
	mode, _ = cpu.ParseMode(cfg.Mode)
	return
}
