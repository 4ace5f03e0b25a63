package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/debounce"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// DefaultAutoSaveDelay is the quiet period before an edited note is written.
const DefaultAutoSaveDelay = time.Second

// AutoSaver delays note writes until typing pauses. Each content item has its
// own timer; a new edit replaces the pending one.
type AutoSaver struct {
	tasks TaskService
	d     *debounce.Debouncer
	log   logging.Logger
}

func NewAutoSaver(tasks TaskService, delay time.Duration, log logging.Logger) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &AutoSaver{tasks: tasks, d: debounce.New(delay), log: log}
}

func saveKey(taskID, contentID int64) string {
	return fmt.Sprintf("%d/%d", taskID, contentID)
}

// Edit schedules text to be written into the content item.
func (a *AutoSaver) Edit(taskID, contentID int64, text string) {
	a.d.Debounce(saveKey(taskID, contentID), func() {
		ctx := context.Background()
		item, err := a.tasks.UpdateContent(ctx, taskID, contentID, text)
		if err != nil {
			a.log.Warn(ctx, "auto-save rejected", "task", taskID, "content", contentID, "error", err)
			return
		}
		if item == nil {
			a.log.Warn(ctx, "auto-save dropped", "task", taskID, "content", contentID)
		}
	})
}

// Save writes a pending edit immediately. It reports whether one was pending.
func (a *AutoSaver) Save(taskID, contentID int64) bool {
	return a.d.Flush(saveKey(taskID, contentID))
}

// Discard forgets a pending edit, e.g. when the note was deleted.
func (a *AutoSaver) Discard(taskID, contentID int64) {
	a.d.Cancel(saveKey(taskID, contentID))
}

func (a *AutoSaver) Pending() int {
	return a.d.Pending()
}

// Close writes every pending edit and stops accepting new ones.
func (a *AutoSaver) Close() {
	a.d.FlushAll()
	a.d.Stop()
}
