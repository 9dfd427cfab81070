package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/dto"
	"github.com/rvdmeer/timesheet-api/internal/middleware"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/services"
	"github.com/rvdmeer/timesheet-api/internal/utils"
)

// EntryHandler coordinates time-entry HTTP handlers.
type EntryHandler struct {
	entryService *services.EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// EntryRequest is the shared request body for creating and updating entries.
type EntryRequest struct {
	EntryDate string          `json:"entry_date"`
	TaskID    uint64          `json:"task_id"`
	Hours     decimal.Decimal `json:"hours"`
	Note      string          `json:"note"`
}

func entryID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("entryId"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid entry ID")
		return 0, false
	}
	return id, true
}

// dateRange parses the optional from/to query filters.
func dateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(constants.DateFormat, raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid 'from' date")
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(constants.DateFormat, raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid 'to' date")
			return nil, nil, false
		}
		to = &t
	}
	return from, to, true
}

// CreateEntry logs hours against a task of the project.
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req EntryRequest
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

	entry, err := h.entryService.CreateEntry(identity, project.ID, services.EntryInput{
		Date:   req.EntryDate,
		TaskID: req.TaskID,
		Hours:  req.Hours,
		Note:   req.Note,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryDTO(*entry))
}

// ListEntries lists the project's entries. Managers see every user's
// entries, employees only their own.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}

	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, total, err := h.entryService.ListProjectEntries(identity, services.ListEntriesInput{
		ProjectID: project.ID,
		From:      from,
		To:        to,
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryListResponse(entries, params.Page, params.Limit, total))
}

// ListOwnEntries lists the caller's entries across all projects.
func (h *EntryHandler) ListOwnEntries(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, total, err := h.entryService.ListOwnEntries(identity, from, to, params.Page, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryListResponse(entries, params.Page, params.Limit, total))
}

// UpdateEntry overwrites an entry the caller owns while it is pending.
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	var req EntryRequest
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
	id, ok := entryID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.UpdateEntry(identity, project.ID, id, services.EntryInput{
		Date:   req.EntryDate,
		TaskID: req.TaskID,
		Hours:  req.Hours,
		Note:   req.Note,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryDTO(*entry))
}

// DeleteEntry removes a pending entry the caller owns.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apperrors.NotFound(c, "Project not found")
		return
	}
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.entryService.DeleteEntry(identity, project.ID, id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetEntryStatus approves, rejects or re-opens an entry.
func (h *EntryHandler) SetEntryStatus(c *gin.Context) {
	type StatusRequest struct {
		Status models.EntryStatus `json:"status"`
	}

	var req StatusRequest
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
	id, ok := entryID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.SetEntryStatus(identity, project.ID, id, req.Status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryDTO(*entry))
}
