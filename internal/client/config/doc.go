// Package config loads runtime configuration for the taskkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are YAML, anything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "5m" or integer
// nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.taskkeeper",
//	  "variant": "pro",
//	  "listen_addr": "127.0.0.1:8077",
//	  "inbox_dir": "/home/me/Downloads/tasks",
//	  "backup_interval": "5m",
//	  "autosave_delay": "1s",
//	  "log_level": "debug"
//	}
//
// Environment variables are not read.
package config
