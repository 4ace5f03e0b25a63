package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used only for decoding config files. Unset fields keep
// the value from earlier stages.
type FileConfig struct {
	DataDir        *string         `json:"data_dir" yaml:"data_dir"`
	Backend        *string         `json:"backend" yaml:"backend"`
	Variant        *string         `json:"variant" yaml:"variant"`
	ListenAddr     *string         `json:"listen_addr" yaml:"listen_addr"`
	InboxDir       *string         `json:"inbox_dir" yaml:"inbox_dir"`
	BackupInterval *timex.Duration `json:"backup_interval" yaml:"backup_interval"`
	AutoSaveDelay  *timex.Duration `json:"autosave_delay" yaml:"autosave_delay"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	HistoryFile    *string         `json:"history_file" yaml:"history_file"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.Backend, fc.Backend)
	setString(&cfg.Variant, fc.Variant)
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.InboxDir, fc.InboxDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.HistoryFile, fc.HistoryFile)
	if fc.BackupInterval != nil {
		cfg.BackupInterval = fc.BackupInterval.Duration
	}
	if fc.AutoSaveDelay != nil {
		cfg.AutoSaveDelay = fc.AutoSaveDelay.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
