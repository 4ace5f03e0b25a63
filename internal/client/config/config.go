package config

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	VariantPro    = "pro"
	VariantSimple = "simple"
)

// Config holds runtime settings for the taskkeeper CLI.
type Config struct {
	// DataDir holds the SQLite file, the kv directory and the REPL history.
	DataDir string
	// Backend forces "indexed" or "flat"; empty picks one from Variant.
	Backend string
	Variant string
	// ListenAddr enables the local HTTP API when set.
	ListenAddr string
	// InboxDir enables the import inbox when set.
	InboxDir       string
	BackupInterval time.Duration
	AutoSaveDelay  time.Duration
	LogLevel       string
	HistoryFile    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "taskkeeper-data"
	c.Backend = ""
	c.Variant = VariantPro
	c.ListenAddr = ""
	c.InboxDir = ""
	c.BackupInterval = 5 * time.Minute
	c.AutoSaveDelay = time.Second
	c.LogLevel = "info"
	c.HistoryFile = ""
}

// Simple reports whether the simple variant is selected.
func (c *Config) Simple() bool {
	return c.Variant == VariantSimple
}

// StorageBackend returns the preferred backend: the explicit one, or flat for
// the simple variant and indexed otherwise.
func (c *Config) StorageBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.Simple() {
		return "flat"
	}
	return "indexed"
}

// History returns the REPL history file path.
func (c *Config) History() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(c.DataDir, "history")
}

func (c *Config) validate() error {
	switch c.Variant {
	case VariantPro, VariantSimple:
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	switch c.Backend {
	case "", "indexed", "flat":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.BackupInterval <= 0 {
		return fmt.Errorf("backup interval must be positive, got %s", c.BackupInterval)
	}
	if c.AutoSaveDelay <= 0 {
		return fmt.Errorf("auto-save delay must be positive, got %s", c.AutoSaveDelay)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
