package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/services"
)

type TaskService interface {
	CreateTask(ctx context.Context, title, description string) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Title == nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	task, err := h.tasks.CreateTask(r.Context(), *req.Title, description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	update, err := models.DecodeTaskUpdate(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update: "+err.Error())
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{OK: true})
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: task id %q is not an integer", services.ErrInvalidInput, raw))
		return 0, false
	}
	return id, true
}
