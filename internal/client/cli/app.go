package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/query"
	"github.com/dmitrijs2005/taskkeeper/internal/client/render"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
)

type Options struct {
	// Simple hides category, priority and status.
	Simple bool
	Now    func() time.Time
}

// App is the interactive shell. It owns the current view (search text,
// filters and sort order) and nothing else; tasks live in the services.
type App struct {
	tasks   services.TaskService
	backups services.BackupService
	saver   *services.AutoSaver
	in      LineInput
	out     io.Writer
	simple  bool
	now     func() time.Time
	view    query.Query
}

func NewApp(tasks services.TaskService, backups services.BackupService, saver *services.AutoSaver, in LineInput, out io.Writer, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &App{
		tasks:   tasks,
		backups: backups,
		saver:   saver,
		in:      in,
		out:     out,
		simple:  opts.Simple,
		now:     opts.Now,
		view:    query.Query{SortBy: query.SortDate},
	}
}

// Run starts the shell and returns when the user leaves it, input ends or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "taskkeeper (type 'help' for commands)")
	runREPL(ctx, a, a.in, a.out)
}

func (a *App) status() string {
	var parts []string
	if a.view.Text != "" {
		parts = append(parts, fmt.Sprintf("search:%q", a.view.Text))
	}
	f := a.view.Filters
	for _, kv := range [][2]string{{"status", f.Status}, {"priority", f.Priority}, {"category", f.Category}} {
		if kv[1] != "" && kv[1] != query.All {
			parts = append(parts, kv[0]+":"+kv[1])
		}
	}
	if a.view.SortBy != "" && a.view.SortBy != query.SortDate {
		parts = append(parts, "sort:"+string(a.view.SortBy))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// taskLine renders a one-line summary used by list, dup and new.
func (a *App) taskLine(t models.Task) string {
	var b strings.Builder
	if !a.simple {
		mark := "[ ]"
		if t.Status == models.StatusCompleted {
			mark = "[x]"
		}
		b.WriteString(mark + " ")
	}
	fmt.Fprintf(&b, "#%d %s", t.ID, t.Title)
	if !a.simple {
		fmt.Fprintf(&b, " (%s, %s)", t.Category, t.Priority)
	}
	if s := render.Summarize(t); !s.Empty() {
		b.WriteString(" | " + s.String())
	}
	return b.String()
}

func parseIDs(args []string, n int, usage string) ([]int64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		id, err := strconv.ParseInt(strings.TrimPrefix(args[i], "#"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q", args[i])
		}
		ids[i] = id
	}
	return ids, nil
}

func (a *App) mustTask(ctx context.Context, id int64) (*models.Task, error) {
	t := a.tasks.GetTask(ctx, id)
	if t == nil {
		return nil, fmt.Errorf("task %d not found", id)
	}
	return t, nil
}

func (a *App) confirm(prompt string) bool {
	line, err := a.in.ReadLine(prompt + " [y/N]: ")
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
