package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

// EntryService handles the time entry lifecycle: creation, owner edits
// while pending, and manager-tier status transitions.
type EntryService struct {
	entryRepo   repository.EntryRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo repository.EntryRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *EntryService {
	return &EntryService{entryRepo: entryRepo, taskRepo: taskRepo, projectRepo: projectRepo}
}

// EntryInput holds the fields of the entry form. Date is the raw wire
// value so that an unparseable date is reported alongside the other field
// problems instead of failing at the transport layer.
type EntryInput struct {
	Date   string
	TaskID uint64
	Hours  decimal.Decimal
	Note   string
}

// validate accumulates every field problem in one pass. The task check is
// stricter on create (the task must be active) than on update (editing may
// keep referencing a task that was deactivated after the entry was logged).
func (s *EntryService) validate(projectID uint64, input EntryInput, requireActiveTask bool) (time.Time, *apperrors.ValidationError, error) {
	v := apperrors.NewValidationError()

	date, err := time.Parse(constants.DateFormat, input.Date)
	if err != nil {
		v.Add("entry_date", "date must be a valid calendar date (YYYY-MM-DD)")
	}

	maxHours := decimal.NewFromInt(constants.MaxEntryHours)
	if !input.Hours.IsPositive() || input.Hours.GreaterThan(maxHours) {
		v.Add("hours", fmt.Sprintf("hours must be greater than 0 and at most %d", constants.MaxEntryHours))
	}

	if input.TaskID == 0 {
		v.Add("task_id", "choose a task")
	} else {
		task, err := s.taskRepo.FindInProject(input.TaskID, projectID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v.Add("task_id", "invalid task for this project")
		case err != nil:
			return time.Time{}, nil, fmt.Errorf("failed to find task: %w", err)
		case requireActiveTask && !task.IsActive:
			v.Add("task_id", "invalid task for this project")
		}
	}

	return date, v, nil
}

// CreateEntry logs hours for the acting user against an active task of a
// project they can see. The entry always starts pending and is always
// attributed to the actor.
func (s *EntryService) CreateEntry(actor models.Identity, projectID uint64, input EntryInput) (*models.TimeEntry, error) {
	if _, err := s.projectRepo.FindVisible(projectID, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	date, v, err := s.validate(projectID, input, true)
	if err != nil {
		return nil, err
	}
	if v.HasErrors() {
		return nil, v
	}

	entry := &models.TimeEntry{
		UserID:    actor.UserID,
		ProjectID: projectID,
		TaskID:    input.TaskID,
		EntryDate: date,
		Hours:     input.Hours,
		Note:      input.Note,
		Status:    models.EntryStatusPending,
	}

	if err := s.entryRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry overwrites an entry's fields. It succeeds only when the
// entry is owned by the actor, belongs to the project, and is still
// pending; the guard sits in the update statement itself. Status and
// ownership never change; updated_at is refreshed.
func (s *EntryService) UpdateEntry(actor models.Identity, projectID, entryID uint64, input EntryInput) (*models.TimeEntry, error) {
	date, v, err := s.validate(projectID, input, false)
	if err != nil {
		return nil, err
	}
	if v.HasErrors() {
		return nil, v
	}

	rows, err := s.entryRepo.UpdatePending(entryID, actor.UserID, projectID, date, input.TaskID, input.Hours, input.Note)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NewForbiddenError("entry cannot be modified")
	}

	entry, err := s.entryRepo.FindInProject(entryID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry under the same owner+project+pending guard
// as UpdateEntry. Approved and rejected entries are immutable history.
func (s *EntryService) DeleteEntry(actor models.Identity, projectID, entryID uint64) error {
	rows, err := s.entryRepo.DeletePending(entryID, actor.UserID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if rows == 0 {
		return apperrors.NewForbiddenError("entry cannot be deleted")
	}
	return nil
}

// SetEntryStatus transitions an entry between pending, approved and
// rejected. Manager tier only; every transition between the three states
// is allowed, including re-opening an approved entry.
func (s *EntryService) SetEntryStatus(actor models.Identity, projectID, entryID uint64, status models.EntryStatus) (*models.TimeEntry, error) {
	if !actor.ManagerTier() {
		return nil, apperrors.NewForbiddenError("only managers can change entry status")
	}

	if !status.Valid() {
		v := apperrors.NewValidationError()
		v.Add("status", "status must be pending, approved or rejected")
		return nil, v
	}

	rows, err := s.entryRepo.SetStatus(entryID, projectID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry status: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NewNotFoundError("entry")
	}

	entry, err := s.entryRepo.FindInProject(entryID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry: %w", err)
	}
	return entry, nil
}

// ListEntriesInput holds the filters for per-project entry listings.
type ListEntriesInput struct {
	ProjectID uint64
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// ListProjectEntries lists a project's entries: the manager tier sees
// every user's entries, employees only their own.
func (s *EntryService) ListProjectEntries(actor models.Identity, input ListEntriesInput) ([]models.TimeEntry, int64, error) {
	if _, err := s.projectRepo.FindVisible(input.ProjectID, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NewNotFoundError("project")
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	filter := repository.EntryFilter{
		ProjectID: &input.ProjectID,
		From:      input.From,
		To:        input.To,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}
	if !actor.ManagerTier() {
		filter.UserID = &actor.UserID
	}

	entries, total, err := s.entryRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, total, nil
}

// ListOwnEntries lists the actor's own entries across all projects.
func (s *EntryService) ListOwnEntries(actor models.Identity, from, to *time.Time, page, pageSize int) ([]models.TimeEntry, int64, error) {
	filter := repository.EntryFilter{
		UserID:   &actor.UserID,
		From:     from,
		To:       to,
		Page:     page,
		PageSize: pageSize,
	}

	entries, total, err := s.entryRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, total, nil
}
