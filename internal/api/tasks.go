package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asilvr/taskdeck/internal/tasks"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTaskRequest uses pointers so an omitted field is distinguishable from
// an explicit empty string; omitted means "leave unchanged".
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *Handler) handleListTasks(c *gin.Context) {
	list, err := h.taskService.List(c.Request.Context(), currentUserID(c), c.Query("status"))
	if err != nil {
		h.serverError(c, "list tasks failed", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) handleGetTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		h.taskError(c, "get task failed", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), currentUserID(c), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, tasks.ErrTitleRequired) {
			writeError(c, http.StatusBadRequest, "Title is required")
			return
		}
		h.serverError(c, "create task failed", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) handleUpdateTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), currentUserID(c), taskID, tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, tasks.ErrInvalidStatus) {
			writeError(c, http.StatusBadRequest, "Invalid status value")
			return
		}
		h.taskError(c, "update task failed", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Delete(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		h.taskError(c, "delete task failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"task":    task,
	})
}

func (h *Handler) handleToggleTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Toggle(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		h.taskError(c, "toggle task failed", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// taskIDParam parses the :id path segment. A non-numeric id cannot name an
// existing task, so it reads as not found rather than a validation failure.
func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) taskError(c *gin.Context, msg string, err error) {
	if errors.Is(err, tasks.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Task not found")
		return
	}
	h.serverError(c, msg, err)
}
