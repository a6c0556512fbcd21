package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fmoreau/taskdeck/internal/metrics"
	"github.com/fmoreau/taskdeck/internal/middleware"
	"github.com/fmoreau/taskdeck/internal/repo"
)

// ==========================
// Task Handler
// ==========================
//
// Every operation runs behind the session middleware and is scoped to the
// authenticated user; a task owned by someone else answers 404, never 403.
type TaskHandler struct {
	Tasks *repo.TaskRepo
}

// ==========================
// List Tasks
// ==========================
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.Tasks.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("list tasks", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// ==========================
// Create Task
// ==========================
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.Create(r.Context(), userID, input.Title, input.Description, input.Completed)
	if err != nil {
		slog.Error("create task", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.TasksCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    task,
	})
}

// ==========================
// Get Task By ID
// ==========================
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "Task not found", http.StatusNotFound)
			return
		}
		slog.Error("get task", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// ==========================
// Update Task (partial)
// ==========================
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Title       *string `json:"title" validate:"omitempty,min=1"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.Update(r.Context(), userID, taskID, repo.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "Task not found", http.StatusNotFound)
			return
		}
		slog.Error("update task", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// ==========================
// Delete Task
// ==========================
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	if err := h.Tasks.Delete(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "Task not found", http.StatusNotFound)
			return
		}
		slog.Error("delete task", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
