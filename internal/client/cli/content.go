package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/render"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
)

func (a *App) Note(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "note <id>")
	if err != nil {
		return err
	}
	if _, err := a.mustTask(ctx, ids[0]); err != nil {
		return err
	}
	text, err := readMultiline(a.in, a.out, "Note text", nil)
	if err != nil {
		return err
	}
	item, err := a.tasks.AddContent(ctx, ids[0], models.ContentText, text)
	if err != nil {
		return err
	}
	if item == nil {
		return errUnavailable
	}
	a.printf("Added note [%d] to task #%d.\n", item.ID, ids[0])
	return nil
}

// imageDataURI reads path and encodes it as a base64 data URI. Files whose
// sniffed type is not an image are rejected.
func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (a *App) Image(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "image <id> <file>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: image <id> <file>")
	}
	uri, err := imageDataURI(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	item, err := a.tasks.AddContent(ctx, ids[0], models.ContentImage, uri)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("task %d not found or storage unavailable", ids[0])
	}
	a.printf("Added image [%d] to task #%d.\n", item.ID, ids[0])
	return nil
}

// EditNote replaces a note's text. Every line typed schedules an auto-save;
// finishing the note writes it at once.
func (a *App) EditNote(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 2, "editnote <id> <item>")
	if err != nil {
		return err
	}
	taskID, contentID := ids[0], ids[1]
	t, err := a.mustTask(ctx, taskID)
	if err != nil {
		return err
	}
	i := t.ContentIndex(contentID)
	if i < 0 {
		return fmt.Errorf("task %d has no item %d", taskID, contentID)
	}
	if t.Content[i].Type != models.ContentText {
		return errors.New("only notes can be edited")
	}

	a.printf("Current text:\n%s\n", t.Content[i].Content)
	text, err := readMultiline(a.in, a.out, "New text", func(partial string) {
		a.saver.Edit(taskID, contentID, partial)
	})
	if err != nil {
		a.saver.Discard(taskID, contentID)
		return err
	}
	if text == "" {
		a.saver.Discard(taskID, contentID)
		a.printf("Unchanged.\n")
		return nil
	}
	a.saver.Edit(taskID, contentID, text)
	a.saver.Save(taskID, contentID)
	a.printf("Saved note [%d].\n", contentID)
	return nil
}

func (a *App) RemoveContent(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 2, "rmcontent <id> <item>")
	if err != nil {
		return err
	}
	a.saver.Discard(ids[0], ids[1])
	if !a.tasks.DeleteContent(ctx, ids[0], ids[1]) {
		return fmt.Errorf("item %d of task %d could not be removed", ids[1], ids[0])
	}
	a.printf("Removed item [%d].\n", ids[1])
	return nil
}

// Document writes the printable HTML for a task. Without a file argument the
// name is derived from the title.
func (a *App) Document(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "doc <id> [file]")
	if err != nil {
		return err
	}
	t, err := a.mustTask(ctx, ids[0])
	if err != nil {
		return err
	}

	html, err := render.HTML(render.NewDocument(*t, a.now()))
	if err != nil {
		return err
	}
	path := strings.TrimSuffix(render.FileName(t.Title), ".pdf") + ".html"
	if len(args) > 1 {
		path = strings.Join(args[1:], " ")
	}
	if err := filex.WriteFileAtomic(path, []byte(html), 0o644); err != nil {
		return err
	}
	a.printf("Wrote %s (%s).\n", path, render.Summarize(*t))
	return nil
}
