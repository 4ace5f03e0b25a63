package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string     data directory
//	-b string     storage backend: indexed or flat
//	-m string     variant: pro or simple
//	-a string     listen address of the local HTTP API (empty disables it)
//	-i string     import inbox directory (empty disables it)
//	-l string     log level
//	-w duration   periodic backup interval
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-m", "-a", "-i", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (indexed or flat)")
	fs.StringVar(&cfg.Variant, "m", cfg.Variant, "variant (pro or simple)")
	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address of the local HTTP API")
	fs.StringVar(&cfg.InboxDir, "i", cfg.InboxDir, "import inbox directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.BackupInterval, "w", cfg.BackupInterval, "periodic backup interval")

	return fs.Parse(args)
}
