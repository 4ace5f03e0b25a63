package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/query"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// TaskService is the set of calls the UI glue makes into the core.
//
// Only validation failures are returned as errors (matching
// common.ErrValidation). A missing task or a failed write yields a nil
// result or false: nothing happened.
type TaskService interface {
	CreateTask(ctx context.Context, f models.TaskFields) (*models.Task, error)
	GetTask(ctx context.Context, id int64) *models.Task
	ListTasks(ctx context.Context, q query.Query) []models.Task
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) bool
	DuplicateTask(ctx context.Context, id int64) *models.Task
	ToggleStatus(ctx context.Context, id int64) *models.Task

	AddContent(ctx context.Context, taskID int64, typ models.ContentType, content string) (*models.ContentItem, error)
	DeleteContent(ctx context.Context, taskID, contentID int64) bool
	UpdateContent(ctx context.Context, taskID, contentID int64, content string) (*models.ContentItem, error)

	Categories(ctx context.Context) []string
}

// TaskOptions tune a TaskService.
type TaskOptions struct {
	// Simple selects the simple variant: no category, priority or status is
	// assigned and search also looks inside text notes.
	Simple bool
	// IDs mints task and content ids. A fresh generator is used when nil.
	IDs *models.IDGenerator
	Now func() time.Time
}

type taskService struct {
	store  Store
	ids    *models.IDGenerator
	now    func() time.Time
	simple bool
	log    logging.Logger
}

// NewTaskService builds the service and seeds the id generator with the
// largest id already stored.
func NewTaskService(ctx context.Context, store Store, log logging.Logger, opts TaskOptions) TaskService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = models.NewIDGenerator(opts.Now)
	}
	opts.IDs.Observe(models.MaxID(store.GetAll(ctx)))

	return &taskService{
		store:  store,
		ids:    opts.IDs,
		now:    opts.Now,
		simple: opts.Simple,
		log:    log,
	}
}

func (s *taskService) stamp() time.Time {
	return models.Timestamp(s.now())
}

func (s *taskService) CreateTask(ctx context.Context, f models.TaskFields) (*models.Task, error) {
	title, err := models.NormalizeTitle(f.Title)
	if err != nil {
		return nil, err
	}
	priority, err := models.ParsePriority(string(f.Priority))
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	t := &models.Task{
		ID:        s.ids.Next(),
		Title:     title,
		Content:   []models.ContentItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !s.simple {
		t.Category = orDefault(f.Category, models.DefaultCategory)
		t.Priority = models.Priority(orDefault(string(priority), string(models.DefaultPriority)))
		t.Status = models.DefaultStatus
	}

	if !s.store.Put(ctx, t) {
		return nil, nil
	}
	s.log.Debug(ctx, "task created", "id", t.ID)
	return t, nil
}

func (s *taskService) GetTask(ctx context.Context, id int64) *models.Task {
	t, ok := s.store.Get(ctx, id)
	if !ok {
		return nil
	}
	return t
}

// ListTasks evaluates q against a fresh snapshot. In the simple variant
// text search also covers note bodies. Title collation follows the saved
// language unless q names one.
func (s *taskService) ListTasks(ctx context.Context, q query.Query) []models.Task {
	if s.simple {
		q.MatchContent = true
	}
	if q.Language == "" && q.SortBy == query.SortTitle {
		q.Language = s.store.Settings(ctx).Language
	}
	return query.Apply(s.store.GetAll(ctx), q)
}

func (s *taskService) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	// validate everything before touching the store
	var (
		title    string
		priority models.Priority
		status   models.Status
		err      error
	)
	if patch.Title != nil {
		if title, err = models.NormalizeTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Priority != nil {
		if priority, err = models.ParsePriority(string(*patch.Priority)); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if status, err = models.ParseStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	t, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, nil
	}

	if patch.Title != nil {
		t.Title = title
	}
	if patch.Category != nil {
		t.Category = orDefault(*patch.Category, models.DefaultCategory)
	}
	if patch.Priority != nil {
		t.Priority = models.Priority(orDefault(string(priority), string(models.DefaultPriority)))
	}
	if patch.Status != nil {
		t.Status = models.Status(orDefault(string(status), string(models.DefaultStatus)))
	}
	t.UpdatedAt = s.stamp()

	if !s.store.Put(ctx, t) {
		return nil, nil
	}
	return t, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) bool {
	if _, ok := s.store.Get(ctx, id); !ok {
		return false
	}
	return s.store.Delete(ctx, id)
}

func (s *taskService) DuplicateTask(ctx context.Context, id int64) *models.Task {
	orig, ok := s.store.Get(ctx, id)
	if !ok {
		return nil
	}

	now := s.stamp()
	dup := orig.Clone()
	dup.ID = s.ids.Next()
	dup.Title = orig.Title + models.CopySuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if !s.simple || dup.Status != "" {
		dup.Status = models.StatusActive
	}
	dup.Content = make([]models.ContentItem, len(orig.Content))
	for i, c := range orig.Content {
		c.ID = s.ids.Next()
		c.CreatedAt = now
		c.UpdatedAt = now
		dup.Content[i] = c
	}

	if !s.store.Put(ctx, &dup) {
		return nil
	}
	return &dup
}

// ToggleStatus flips active and completed. A task without a status counts
// as active.
func (s *taskService) ToggleStatus(ctx context.Context, id int64) *models.Task {
	t, ok := s.store.Get(ctx, id)
	if !ok {
		return nil
	}
	if t.Status == models.StatusCompleted {
		t.Status = models.StatusActive
	} else {
		t.Status = models.StatusCompleted
	}
	t.UpdatedAt = s.stamp()

	if !s.store.Put(ctx, t) {
		return nil
	}
	return t
}

func (s *taskService) AddContent(ctx context.Context, taskID int64, typ models.ContentType, content string) (*models.ContentItem, error) {
	if err := models.ValidateContent(typ, content); err != nil {
		return nil, err
	}

	t, ok := s.store.Get(ctx, taskID)
	if !ok {
		return nil, nil
	}

	now := s.stamp()
	item := models.ContentItem{
		ID:        s.ids.Next(),
		Type:      typ,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Content = append(t.Content, item)
	t.UpdatedAt = now

	if !s.store.Put(ctx, t) {
		return nil, nil
	}
	return &item, nil
}

func (s *taskService) DeleteContent(ctx context.Context, taskID, contentID int64) bool {
	t, ok := s.store.Get(ctx, taskID)
	if !ok {
		return false
	}
	i := t.ContentIndex(contentID)
	if i < 0 {
		return false
	}
	t.Content = append(t.Content[:i], t.Content[i+1:]...)
	t.UpdatedAt = s.stamp()
	return s.store.Put(ctx, t)
}

func (s *taskService) UpdateContent(ctx context.Context, taskID, contentID int64, content string) (*models.ContentItem, error) {
	t, ok := s.store.Get(ctx, taskID)
	if !ok {
		return nil, nil
	}
	i := t.ContentIndex(contentID)
	if i < 0 {
		return nil, nil
	}
	if err := models.ValidateContent(t.Content[i].Type, content); err != nil {
		return nil, err
	}

	now := s.stamp()
	t.Content[i].Content = content
	t.Content[i].UpdatedAt = now
	t.UpdatedAt = now

	if !s.store.Put(ctx, t) {
		return nil, nil
	}
	item := t.Content[i]
	return &item, nil
}

func (s *taskService) Categories(ctx context.Context) []string {
	return s.store.Categories(ctx)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
