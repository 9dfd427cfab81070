package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/dto"
	"github.com/rvdmeer/timesheet-api/internal/middleware"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	reportService  *services.ReportService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, reportService *services.ReportService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		reportService:  reportService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name string `json:"name"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	identity, _ := middleware.GetIdentity(c)

	project, err := h.projectService.CreateProject(identity, req.Name)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project, decimal.Zero))
}

// ListProjects lists the projects visible to the caller, with their
// approved totals.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	includeInactive := c.Query("include_inactive") == "1" || c.Query("include_inactive") == "true"

	projects, err := h.projectService.ListProjects(identity, includeInactive)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	totals, err := h.reportService.ProjectTotals(identity, projects)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = dto.ToProjectDTO(project, totals[project.ID])
	}

	c.JSON(http.StatusOK, gin.H{"projects": items})
}

// GetProject returns one project with its approved total.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	total, err := h.reportService.ProjectTotal(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project, total))
}

// UpdateProject renames a project and sets its hour budget.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name         string           `json:"name"`
		PlannedHours *decimal.Decimal `json:"planned_hours"`
	}

	var req UpdateProjectRequest
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

	if err := h.projectService.RenameProject(identity, project.ID, req.Name, req.PlannedHours); err != nil {
		apperrors.Respond(c, err)
		return
	}

	updated, err := h.projectService.GetProject(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	total, err := h.reportService.ProjectTotal(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated, total))
}

// ActivateProject marks a project active.
func (h *ProjectHandler) ActivateProject(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateProject marks a project inactive.
func (h *ProjectHandler) DeactivateProject(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ProjectHandler) setActive(c *gin.Context, active bool) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	if err := h.projectService.SetProjectActive(identity, project.ID, active); err != nil {
		apperrors.Respond(c, err)
		return
	}

	updated, err := h.projectService.GetProject(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	total, err := h.reportService.ProjectTotal(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated, total))
}

// DeleteProject deletes an inactive project without entries.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	if err := h.projectService.DeleteProject(identity, project.ID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProjectReport returns the project totals, per-task breakdown and
// budget summary.
func (h *ProjectHandler) GetProjectReport(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	report, err := h.reportService.ProjectReport(identity, project.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectReportDTO(report))
}
