package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/utils"
)

// EntryDTO represents a time entry in API responses
type EntryDTO struct {
	ID        uint64             `json:"id"`
	ProjectID uint64             `json:"project_id"`
	TaskID    uint64             `json:"task_id"`
	TaskName  string             `json:"task_name,omitempty"`
	UserID    uint64             `json:"user_id"`
	UserEmail string             `json:"user_email,omitempty"`
	EntryDate string             `json:"entry_date"`
	Hours     decimal.Decimal    `json:"hours"`
	Note      string             `json:"note"`
	Status    models.EntryStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// EntryListResponse represents a paginated list of time entries
type EntryListResponse struct {
	Entries    []EntryDTO               `json:"entries"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToEntryDTO converts a TimeEntry model to EntryDTO
func ToEntryDTO(entry models.TimeEntry) EntryDTO {
	dto := EntryDTO{
		ID:        entry.ID,
		ProjectID: entry.ProjectID,
		TaskID:    entry.TaskID,
		UserID:    entry.UserID,
		EntryDate: entry.EntryDate.Format(constants.DateFormat),
		Hours:     entry.Hours,
		Note:      entry.Note,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	// Include relations if preloaded
	if entry.Task.ID != 0 {
		dto.TaskName = entry.Task.Name
	}
	if entry.User.ID != 0 {
		dto.UserEmail = entry.User.Email
	}

	return dto
}

// ToEntryListResponse converts a slice of entries to EntryListResponse
func ToEntryListResponse(entries []models.TimeEntry, page, limit int, total int64) EntryListResponse {
	items := make([]EntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToEntryDTO(entry)
	}

	return EntryListResponse{
		Entries: items,
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}
