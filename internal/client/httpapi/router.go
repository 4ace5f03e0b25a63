package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBody caps request bodies; images travel inline as data URIs.
const maxBody = 32 << 20

type API struct {
	tasks   services.TaskService
	backups services.BackupService
	logger  logging.Logger
	now     func() time.Time
}

func NewRouter(tasks services.TaskService, backups services.BackupService, l logging.Logger) http.Handler {
	api := &API{tasks: tasks, backups: backups, logger: l, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(l))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBody))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", api.listTasks)
		r.Post("/", api.createTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.getTask)
			r.Patch("/", api.updateTask)
			r.Delete("/", api.deleteTask)
			r.Post("/duplicate", api.duplicateTask)
			r.Post("/toggle", api.toggleStatus)
			r.Get("/document", api.document)
			r.Post("/content", api.addContent)
			r.Put("/content/{contentID}", api.updateContent)
			r.Delete("/content/{contentID}", api.deleteContent)
		})
	})
	r.Get("/categories", api.categories)
	r.Get("/export", api.export)
	r.Post("/import", api.importDoc)
	r.Post("/backup", api.backup)
	r.Get("/settings", api.getSettings)
	r.Put("/settings", api.putSettings)

	return r
}
