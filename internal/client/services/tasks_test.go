package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/query"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_AppearsOnceWithDefaults(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		created, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "  Write report  "})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "Write report", created.Title)
		assert.Equal(t, models.DefaultCategory, created.Category)
		assert.Equal(t, models.DefaultPriority, created.Priority)
		assert.Equal(t, models.DefaultStatus, created.Status)
		assert.NotNil(t, created.Content)

		list := f.tasks.ListTasks(ctx, query.Query{})
		count := 0
		for _, task := range list {
			if task.ID == created.ID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		for _, title := range []string{"", "   ", "\t\n"} {
			got, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: title})
			assert.Nil(t, got)
			assert.ErrorIs(t, err, common.ErrValidation)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "title", verr.Field)
		}
		assert.Empty(t, f.store.GetAll(ctx), "no store mutation")
	})
}

func TestCreateTask_UnknownPriorityRejected(t *testing.T) {
	f := newFixture(t, "flat", false)
	_, err := f.tasks.CreateTask(context.Background(), models.TaskFields{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateTask_SimpleVariantLeavesFieldsUnset(t *testing.T) {
	f := newFixture(t, "flat", true)
	created, err := f.tasks.CreateTask(context.Background(), models.TaskFields{Title: "plain"})
	require.NoError(t, err)
	assert.Empty(t, created.Category)
	assert.Empty(t, created.Priority)
	assert.Empty(t, created.Status)
}

func TestCreateTask_IDsUnique(t *testing.T) {
	f := newFixture(t, "flat", false)
	ctx := context.Background()
	seen := map[int64]bool{}
	for i := 0; i < 20; i++ {
		created, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "t"})
		require.NoError(t, err)
		require.False(t, seen[created.ID], "id %d reused", created.ID)
		seen[created.ID] = true
	}
}

func TestNewTaskService_SeedsFromStoredIDs(t *testing.T) {
	store := openStore(t, "flat")
	ctx := context.Background()
	require.True(t, store.Put(ctx, &models.Task{ID: 9_000_000_000_000, Title: "future", Content: []models.ContentItem{}}))

	c := newClock()
	svc := NewTaskService(ctx, store, logging.Discard(), TaskOptions{Now: c.Now})
	created, err := svc.CreateTask(ctx, models.TaskFields{Title: "next"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(9_000_000_000_000))
}

func TestDuplicateTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		orig, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "Original", Category: "Work", Priority: models.PriorityHigh})
		require.NoError(t, err)
		_, err = f.tasks.AddContent(ctx, orig.ID, models.ContentText, "note")
		require.NoError(t, err)
		_, err = f.tasks.AddContent(ctx, orig.ID, models.ContentImage, "data:image/png;base64,AAA")
		require.NoError(t, err)
		require.NotNil(t, f.tasks.ToggleStatus(ctx, orig.ID))
		orig = f.tasks.GetTask(ctx, orig.ID)
		require.Equal(t, models.StatusCompleted, orig.Status)

		dup := f.tasks.DuplicateTask(ctx, orig.ID)
		require.NotNil(t, dup)
		assert.NotEqual(t, orig.ID, dup.ID)
		assert.Contains(t, dup.Title, models.CopySuffix)
		assert.Equal(t, models.StatusActive, dup.Status)
		assert.Equal(t, "Work", dup.Category)
		assert.Equal(t, models.PriorityHigh, dup.Priority)

		require.Len(t, dup.Content, 2)
		origIDs := map[int64]bool{}
		for _, c := range orig.Content {
			origIDs[c.ID] = true
		}
		for i, c := range dup.Content {
			assert.False(t, origIDs[c.ID], "content id %d shared with original", c.ID)
			assert.Equal(t, orig.Content[i].Content, c.Content)
		}

		// editing the copy leaves the original alone
		_, err = f.tasks.UpdateContent(ctx, dup.ID, dup.Content[0].ID, "changed")
		require.NoError(t, err)
		assert.Equal(t, "note", f.tasks.GetTask(ctx, orig.ID).Content[0].Content)
	})
}

func TestDuplicateTask_Missing(t *testing.T) {
	f := newFixture(t, "flat", false)
	assert.Nil(t, f.tasks.DuplicateTask(context.Background(), 123))
}

func TestDeleteTask_CascadesContent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		keep, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "keep"})
		require.NoError(t, err)
		gone, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "gone"})
		require.NoError(t, err)
		_, err = f.tasks.AddContent(ctx, gone.ID, models.ContentText, "bye")
		require.NoError(t, err)

		assert.True(t, f.tasks.DeleteTask(ctx, gone.ID))
		assert.False(t, f.tasks.DeleteTask(ctx, gone.ID), "second delete is a silent no-op")

		list := f.tasks.ListTasks(ctx, query.Query{})
		require.Len(t, list, 1)
		assert.Equal(t, keep.ID, list[0].ID)
		for _, task := range list {
			for _, c := range task.Content {
				assert.NotEqual(t, "bye", c.Content)
			}
		}
		assert.Nil(t, f.tasks.GetTask(ctx, gone.ID))
	})
}

func TestUpdateContent_ReadAfterWrite(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "notes"})
		require.NoError(t, err)
		item, err := f.tasks.AddContent(ctx, task.ID, models.ContentText, "")
		require.NoError(t, err)
		require.NotNil(t, item)

		updated, err := f.tasks.UpdateContent(ctx, task.ID, item.ID, "hello")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))

		got := f.tasks.GetTask(ctx, task.ID)
		require.Len(t, got.Content, 1)
		assert.Equal(t, "hello", got.Content[0].Content)
		assert.True(t, got.UpdatedAt.After(task.UpdatedAt))

		list := f.tasks.ListTasks(ctx, query.Query{})
		require.Len(t, list, 1)
		assert.Equal(t, "hello", list[0].Content[0].Content)
	})
}

func TestContentValidation(t *testing.T) {
	f := newFixture(t, "flat", false)
	ctx := context.Background()
	task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "pics"})
	require.NoError(t, err)

	_, err = f.tasks.AddContent(ctx, task.ID, models.ContentImage, "")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.tasks.AddContent(ctx, task.ID, models.ContentImage, "http://x/y.png")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.tasks.AddContent(ctx, task.ID, "video", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, f.tasks.GetTask(ctx, task.ID).Content)

	img, err := f.tasks.AddContent(ctx, task.ID, models.ContentImage, "data:image/png;base64,AA")
	require.NoError(t, err)
	_, err = f.tasks.UpdateContent(ctx, task.ID, img.ID, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestContentMissingTargetsAreNoOps(t *testing.T) {
	f := newFixture(t, "flat", false)
	ctx := context.Background()
	task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "t"})
	require.NoError(t, err)

	item, err := f.tasks.AddContent(ctx, 999, models.ContentText, "x")
	assert.NoError(t, err)
	assert.Nil(t, item)

	item, err = f.tasks.UpdateContent(ctx, task.ID, 999, "x")
	assert.NoError(t, err)
	assert.Nil(t, item)

	assert.False(t, f.tasks.DeleteContent(ctx, task.ID, 999))
	assert.False(t, f.tasks.DeleteContent(ctx, 999, 1))
}

func TestDeleteContent_KeepsOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "ordered"})
		require.NoError(t, err)

		var ids []int64
		for _, body := range []string{"one", "two", "three"} {
			item, err := f.tasks.AddContent(ctx, task.ID, models.ContentText, body)
			require.NoError(t, err)
			ids = append(ids, item.ID)
		}

		require.True(t, f.tasks.DeleteContent(ctx, task.ID, ids[1]))
		got := f.tasks.GetTask(ctx, task.ID)
		require.Len(t, got.Content, 2)
		assert.Equal(t, "one", got.Content[0].Content)
		assert.Equal(t, "three", got.Content[1].Content)
	})
}

func TestToggleStatus(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "flip"})
		require.NoError(t, err)

		got := f.tasks.ToggleStatus(ctx, task.ID)
		require.NotNil(t, got)
		assert.Equal(t, models.StatusCompleted, got.Status)

		got = f.tasks.ToggleStatus(ctx, task.ID)
		assert.Equal(t, models.StatusActive, got.Status)

		require.True(t, f.tasks.DeleteTask(ctx, task.ID))
		assert.Nil(t, f.tasks.ToggleStatus(ctx, task.ID), "toggle re-fetches and finds nothing")
		assert.Empty(t, f.store.GetAll(ctx))
	})
}

func TestUpdateTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "old", Category: "Work", Priority: models.PriorityLow})
		require.NoError(t, err)

		got, err := f.tasks.UpdateTask(ctx, task.ID, models.TaskPatch{
			Title:    ptr("new"),
			Priority: ptr(models.PriorityHigh),
		})
		require.NoError(t, err)
		assert.Equal(t, "new", got.Title)
		assert.Equal(t, "Work", got.Category, "nil fields untouched")
		assert.Equal(t, models.PriorityHigh, got.Priority)

		got, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskPatch{Category: ptr(""), Priority: ptr(models.Priority(""))})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultCategory, got.Category)
		assert.Equal(t, models.DefaultPriority, got.Priority)

		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskPatch{Title: ptr("  "), Category: ptr("Home")})
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, models.DefaultCategory, f.tasks.GetTask(ctx, task.ID).Category, "rejected patch applies nothing")

		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskPatch{Status: ptr(models.Status("done"))})
		assert.ErrorIs(t, err, common.ErrValidation)

		got, err = f.tasks.UpdateTask(ctx, 4242, models.TaskPatch{Title: ptr("x")})
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestListTasks_FilterAndSort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		a, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "A", Priority: models.PriorityHigh})
		require.NoError(t, err)
		b, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "B", Priority: models.PriorityLow})
		require.NoError(t, err)
		require.NotNil(t, f.tasks.ToggleStatus(ctx, b.ID))
		c, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "C", Priority: models.PriorityMedium})
		require.NoError(t, err)

		got := f.tasks.ListTasks(ctx, query.Query{Filters: query.Filters{Status: "active", Priority: "high"}})
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)

		got = f.tasks.ListTasks(ctx, query.Query{SortBy: query.SortPriority})
		require.Len(t, got, 3)
		assert.Equal(t, []int64{a.ID, c.ID, b.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

		got = f.tasks.ListTasks(ctx, query.Query{})
		assert.Equal(t, c.ID, got[0].ID, "newest first by default")
	})
}

func TestListTasks_SimpleVariantSearchesNotes(t *testing.T) {
	f := newFixture(t, "flat", true)
	ctx := context.Background()
	task, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "groceries"})
	require.NoError(t, err)
	_, err = f.tasks.AddContent(ctx, task.ID, models.ContentText, "eggs and flour")
	require.NoError(t, err)

	assert.Len(t, f.tasks.ListTasks(ctx, query.Query{Text: "FLOUR"}), 1)
}

func TestCategories(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		for _, cat := range []string{"Work", "Home", "Work", ""} {
			_, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "t", Category: cat})
			require.NoError(t, err)
		}
		assert.Equal(t, []string{models.DefaultCategory, "Home", "Work"}, f.tasks.Categories(ctx))
	})
}

func TestTaskService_StorageFailureIsNothingHappened(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{tasks: map[int64]models.Task{
		1: {ID: 1, Title: "t", Status: models.StatusActive, Content: []models.ContentItem{{ID: 2, Type: models.ContentText}}},
	}}
	svc := NewTaskService(ctx, store, logging.Discard(), TaskOptions{Now: newClock().Now})

	created, err := svc.CreateTask(ctx, models.TaskFields{Title: "x"})
	assert.NoError(t, err)
	assert.Nil(t, created)

	assert.Nil(t, svc.ToggleStatus(ctx, 1))
	assert.Nil(t, svc.DuplicateTask(ctx, 1))
	assert.False(t, svc.DeleteTask(ctx, 1))
	assert.False(t, svc.DeleteContent(ctx, 1, 2))

	item, err := svc.UpdateContent(ctx, 1, 2, "x")
	assert.NoError(t, err)
	assert.Nil(t, item)

	assert.Equal(t, 5, store.puts)
	assert.Equal(t, models.StatusActive, store.tasks[1].Status)
}
