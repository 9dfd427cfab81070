package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/dto"
	"github.com/rvdmeer/timesheet-api/internal/middleware"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService   *services.TaskService
	reportService *services.ReportService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, reportService *services.ReportService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		reportService: reportService,
	}
}

func taskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

// CreateTask adds a task to the project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name string `json:"name"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	task, err := h.taskService.CreateTask(identity, project.ID, req.Name)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, decimal.Zero))
}

// ListTasks lists the project's tasks with their approved totals.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	totals, err := h.reportService.TaskTotals(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items := make([]dto.TaskDTO, len(totals))
	for i, tt := range totals {
		items[i] = dto.ToTaskDTO(tt.Task, tt.Total)
	}

	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// UpdateTask renames a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Name string `json:"name"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.RenameTask(identity, project.ID, id, req.Name); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// ActivateTask marks a task active, so new entries may reference it again.
func (h *TaskHandler) ActivateTask(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateTask retires a task from entry and reporting.
func (h *TaskHandler) DeactivateTask(c *gin.Context) {
	h.setActive(c, false)
}

func (h *TaskHandler) setActive(c *gin.Context, active bool) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.SetTaskActive(identity, project.ID, id, active); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// DeleteTask deletes a task that no entry references.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(identity, project.ID, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
