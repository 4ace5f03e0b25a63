package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/query"
	"github.com/dmitrijs2005/taskkeeper/internal/client/render"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/go-chi/chi/v5"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeRejection maps a validation or format error to 400.
func writeRejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := query.Query{
		Text: v.Get("q"),
		Filters: query.Filters{
			Status:   v.Get("status"),
			Priority: v.Get("priority"),
			Category: v.Get("category"),
		},
		SortBy: query.ParseSort(v.Get("sort")),
	}
	writeJSON(w, http.StatusOK, a.tasks.ListTasks(r.Context(), q))
}

type createRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := a.tasks.CreateTask(r.Context(), models.TaskFields{
		Title:    req.Title,
		Category: req.Category,
		Priority: models.Priority(req.Priority),
	})
	if err != nil {
		writeRejection(w, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusServiceUnavailable, "task was not stored")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	t := a.tasks.GetTask(r.Context(), id)
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type patchRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
}

func (p patchRequest) patch() models.TaskPatch {
	out := models.TaskPatch{Title: p.Title, Category: p.Category}
	if p.Priority != nil {
		v := models.Priority(*p.Priority)
		out.Priority = &v
	}
	if p.Status != nil {
		v := models.Status(*p.Status)
		out.Status = &v
	}
	return out
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var req patchRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := a.tasks.UpdateTask(r.Context(), id, req.patch())
	if err != nil {
		writeRejection(w, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	if !a.tasks.DeleteTask(r.Context(), id) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) duplicateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	t := a.tasks.DuplicateTask(r.Context(), id)
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	t := a.tasks.ToggleStatus(r.Context(), id)
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) document(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	t := a.tasks.GetTask(r.Context(), id)
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	html, err := render.HTML(render.NewDocument(*t, a.now()))
	if err != nil {
		a.logger.Error(r.Context(), "render failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Suggested-Filename", render.FileName(t.Title))
	_, _ = w.Write([]byte(html))
}

type contentRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (a *API) addContent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var req contentRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := a.tasks.AddContent(r.Context(), id, models.ContentType(req.Type), req.Content)
	if err != nil {
		writeRejection(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok1 := idParam(r, "id")
	contentID, ok2 := idParam(r, "contentID")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req contentRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := a.tasks.UpdateContent(r.Context(), id, contentID, req.Content)
	if err != nil {
		writeRejection(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok1 := idParam(r, "id")
	contentID, ok2 := idParam(r, "contentID")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !a.tasks.DeleteContent(r.Context(), id, contentID) {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.tasks.Categories(r.Context()))
}

func (a *API) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, a.backups.ExportFileName(a.now())))
	if err := a.backups.WriteExport(r.Context(), w); err != nil {
		a.logger.Error(r.Context(), "export failed", "error", err)
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (a *API) importDoc(w http.ResponseWriter, r *http.Request) {
	n, err := a.backups.Import(r.Context(), r.Body)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

func (a *API) backup(w http.ResponseWriter, r *http.Request) {
	if !a.backups.CreateBackup(r.Context()) {
		writeError(w, http.StatusServiceUnavailable, "backup was not stored")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.backups.Settings(r.Context()))
}

func (a *API) putSettings(w http.ResponseWriter, r *http.Request) {
	s := a.backups.Settings(r.Context())
	if !decode(w, r, &s) {
		return
	}
	if !a.backups.SaveSettings(r.Context(), s) {
		writeError(w, http.StatusServiceUnavailable, "settings were not stored")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
