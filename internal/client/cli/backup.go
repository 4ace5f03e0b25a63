package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/filex"
)

func (a *App) Export(ctx context.Context, args []string) error {
	path := a.backups.ExportFileName(a.now())
	if len(args) > 0 {
		path = strings.Join(args, " ")
	}
	var buf bytes.Buffer
	if err := a.backups.WriteExport(ctx, &buf); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.printf("Exported to %s.\n", path)
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: import <file>")
	}
	f, err := os.Open(strings.Join(args, " "))
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := a.backups.Import(ctx, f)
	if err != nil {
		return err
	}
	a.printf("Imported %d task(s).\n", n)
	return nil
}

func (a *App) Backup(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "latest" {
		b := a.backups.LatestBackup(ctx)
		if b == nil {
			a.printf("No backup yet.\n")
			return nil
		}
		a.printf("Latest backup %s: %d task(s).\n", b.Timestamp.Local().Format("2006-01-02 15:04:05"), len(b.Tasks))
		return nil
	}
	if !a.backups.CreateBackup(ctx) {
		return errUnavailable
	}
	a.printf("Backup saved.\n")
	return nil
}

func (a *App) Categories(ctx context.Context, args []string) error {
	cats := a.tasks.Categories(ctx)
	if len(cats) == 0 {
		a.printf("No categories.\n")
		return nil
	}
	for _, c := range cats {
		a.printf("%s\n", c)
	}
	return nil
}

// Settings prints the settings, resets them, or applies key=value pairs for
// theme, language and autoBackup.
func (a *App) Settings(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "reset" {
		if !a.backups.ResetSettings(ctx) {
			return errUnavailable
		}
		args = nil
	}
	if len(args) == 0 {
		s := a.backups.Settings(ctx)
		a.printf("theme=%s language=%s autoBackup=%t\n", s.Theme, s.Language, s.AutoBackup)
		return nil
	}

	s := a.backups.Settings(ctx)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		switch key {
		case "theme":
			s.Theme = value
		case "language":
			s.Language = value
		case "autoBackup":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("autoBackup: %w", err)
			}
			s.AutoBackup = b
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
	}
	if !a.backups.SaveSettings(ctx, s) {
		return errUnavailable
	}
	a.printf("theme=%s language=%s autoBackup=%t\n", s.Theme, s.Language, s.AutoBackup)
	return nil
}
