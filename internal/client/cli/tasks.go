package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/query"
	"github.com/dmitrijs2005/taskkeeper/internal/client/render"
)

var errUnavailable = errors.New("storage is unavailable, nothing was saved")

func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 {
		a.view.Text = strings.Join(args, " ")
	}
	list := a.tasks.ListTasks(ctx, a.view)
	if len(list) == 0 {
		a.printf("No tasks.\n")
		return nil
	}
	for _, t := range list {
		a.printf("%s\n", a.taskLine(t))
		if p := render.Preview(t); p != "" {
			a.printf("    %s\n", p)
		}
	}
	a.printf("%d task(s)\n", len(list))
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	a.view.Text = strings.Join(args, " ")
	return a.List(ctx, nil)
}

func (a *App) Filter(ctx context.Context, args []string) error {
	if a.simple {
		return errors.New("filters are not available in the simple variant")
	}
	if len(args) == 0 {
		f := a.view.Filters
		a.printf("status=%s priority=%s category=%s\n",
			orAll(f.Status), orAll(f.Priority), orAll(f.Category))
		return nil
	}
	field, value, ok := strings.Cut(strings.Join(args, " "), "=")
	if !ok {
		if len(args) < 2 {
			return errors.New("usage: filter status|priority|category <value|all>")
		}
		field, value = args[0], strings.Join(args[1:], " ")
	}
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	switch field {
	case "status":
		a.view.Filters.Status = strings.ToLower(value)
	case "priority":
		a.view.Filters.Priority = strings.ToLower(value)
	case "category":
		a.view.Filters.Category = value
	default:
		return fmt.Errorf("unknown filter %q", field)
	}
	return a.List(ctx, nil)
}

func orAll(v string) string {
	if v == "" {
		return query.All
	}
	return v
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sort date|title|priority")
	}
	a.view.SortBy = query.ParseSort(args[0])
	a.printf("Sorting by %s.\n", a.view.SortBy)
	return a.List(ctx, nil)
}

func (a *App) Clear(ctx context.Context, args []string) error {
	a.view = query.Query{SortBy: query.SortDate}
	a.printf("View reset.\n")
	return nil
}

func (a *App) New(ctx context.Context, args []string) error {
	var f models.TaskFields
	var err error
	if f.Title, err = ask(a.in, "Title", strings.Join(args, " ")); err != nil {
		return err
	}
	if !a.simple {
		if f.Category, err = ask(a.in, "Category", models.DefaultCategory); err != nil {
			return err
		}
		p, err := ask(a.in, "Priority (low/medium/high)", string(models.DefaultPriority))
		if err != nil {
			return err
		}
		f.Priority = models.Priority(strings.ToLower(p))
	}

	t, err := a.tasks.CreateTask(ctx, f)
	if err != nil {
		return err
	}
	if t == nil {
		return errUnavailable
	}
	a.printf("Created %s\n", a.taskLine(*t))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "show <id>")
	if err != nil {
		return err
	}
	t, err := a.mustTask(ctx, ids[0])
	if err != nil {
		return err
	}

	a.printf("%s\n", a.taskLine(*t))
	a.printf("Created %s, updated %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"), t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	for _, c := range t.Content {
		switch c.Type {
		case models.ContentImage:
			a.printf("  [%d] image, %d bytes encoded\n", c.ID, len(c.Content))
		default:
			a.printf("  [%d] note:\n", c.ID)
			for _, line := range strings.Split(c.Content, "\n") {
				a.printf("      %s\n", line)
			}
		}
	}
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "edit <id>")
	if err != nil {
		return err
	}
	t, err := a.mustTask(ctx, ids[0])
	if err != nil {
		return err
	}

	var patch models.TaskPatch
	title, err := ask(a.in, "Title", t.Title)
	if err != nil {
		return err
	}
	if title != t.Title {
		patch.Title = &title
	}
	if !a.simple {
		category, err := ask(a.in, "Category", t.Category)
		if err != nil {
			return err
		}
		if category != t.Category {
			patch.Category = &category
		}
		p, err := ask(a.in, "Priority (low/medium/high)", string(t.Priority))
		if err != nil {
			return err
		}
		if priority := models.Priority(strings.ToLower(p)); priority != t.Priority {
			patch.Priority = &priority
		}
	}

	if patch == (models.TaskPatch{}) {
		a.printf("Nothing changed.\n")
		return nil
	}
	updated, err := a.tasks.UpdateTask(ctx, t.ID, patch)
	if err != nil {
		return err
	}
	if updated == nil {
		return errUnavailable
	}
	a.printf("Updated %s\n", a.taskLine(*updated))
	return nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	if a.simple {
		return errors.New("status is not available in the simple variant")
	}
	ids, err := parseIDs(args, 1, "toggle <id>")
	if err != nil {
		return err
	}
	t := a.tasks.ToggleStatus(ctx, ids[0])
	if t == nil {
		return fmt.Errorf("task %d could not be toggled", ids[0])
	}
	a.printf("%s\n", a.taskLine(*t))
	return nil
}

func (a *App) Duplicate(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "dup <id>")
	if err != nil {
		return err
	}
	t := a.tasks.DuplicateTask(ctx, ids[0])
	if t == nil {
		return fmt.Errorf("task %d could not be duplicated", ids[0])
	}
	a.printf("Created %s\n", a.taskLine(*t))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "delete <id>")
	if err != nil {
		return err
	}
	t, err := a.mustTask(ctx, ids[0])
	if err != nil {
		return err
	}
	if !a.confirm(fmt.Sprintf("Delete task #%d %q?", t.ID, t.Title)) {
		a.printf("Cancelled.\n")
		return nil
	}
	for _, c := range t.Content {
		a.saver.Discard(t.ID, c.ID)
	}
	if !a.tasks.DeleteTask(ctx, t.ID) {
		return errUnavailable
	}
	a.printf("Deleted task #%d.\n", t.ID)
	return nil
}
