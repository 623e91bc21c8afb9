// Package config loads broc.toml, the optional file controlling ambient,
// non-semantic behavior of the toolchain: trace verbosity, disassembly
// formatting, and diagnostic output limits. Nothing here can change what a
// BroLang program computes — only how the tools around it behave.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the parsed form of broc.toml.
type Config struct {
	VM          VMConfig          `toml:"vm"`
	Disassembly DisassemblyConfig `toml:"disassembly"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// VMConfig controls brovm's observability, never its semantics.
type VMConfig struct {
	Trace bool `toml:"trace"`
}

// DisassemblyConfig controls brodis's output formatting.
type DisassemblyConfig struct {
	ColumnWidth int `toml:"column-width"`
}

// DiagnosticsConfig caps how many compiler diagnostics broc prints before
// truncating, per spec.md §7's best-effort diagnostics policy.
type DiagnosticsConfig struct {
	MaxPrinted int `toml:"max-printed"`
}

// Default returns the configuration used when no broc.toml is found.
func Default() *Config {
	return &Config{
		Disassembly: DisassemblyConfig{ColumnWidth: 8},
		Diagnostics: DiagnosticsConfig{MaxPrinted: 20},
	}
}

// Load reads broc.toml from dir, falling back to Default() if the file does
// not exist. A malformed file is an error — config, unlike source code, has
// no permissive-diagnostics policy.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "broc.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}
