package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/models"
)

// ErrHasEntries is returned by ProjectRepository.DeleteOwned and
// TaskRepository.Delete when time entries still reference the target.
var ErrHasEntries = errors.New("time entries still reference the target")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectFilter holds the predicates for listing projects. A nil OwnerID
// means no owner restriction (manager-tier visibility).
type ProjectFilter struct {
	OwnerID         *uint64
	IncludeInactive bool
}

// ProjectRepository defines the interface for project data access.
//
// Mutating methods return the number of rows affected: the WHERE clause
// encodes the ownership precondition, so zero rows means the project does
// not exist in the actor's scope and nothing happened.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindVisible finds a project by ID within the viewer's visibility
	// scope (employees see their own projects, manager tier sees all).
	FindVisible(projectID uint64, viewer models.Identity) (*models.Project, error)

	// FindOwned finds a project by ID scoped to its owner.
	FindOwned(projectID, ownerID uint64) (*models.Project, error)

	// List lists projects matching the filter, active first then by name.
	List(filter ProjectFilter) ([]models.Project, error)

	// NameTaken reports whether the owner already has a project with the
	// given name, excluding excludeID (0 to exclude nothing).
	NameTaken(ownerID uint64, name string, excludeID uint64) (bool, error)

	// UpdateOwned updates name and budget in one owner-scoped statement.
	UpdateOwned(projectID, ownerID uint64, name string, planned decimal.NullDecimal) (int64, error)

	// SetActiveOwned toggles is_active in one owner-scoped statement.
	SetActiveOwned(projectID, ownerID uint64, active bool) (int64, error)

	// DeleteOwned deletes the project's tasks and then the project itself in
	// a single transaction, scoped to the owner. Returns ErrHasEntries when
	// time entries still reference the project.
	DeleteOwned(projectID, ownerID uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindInProject finds a task by ID, confirming it belongs to the project.
	FindInProject(taskID, projectID uint64) (*models.Task, error)

	// ListByProject lists all tasks of a project sorted by name.
	ListByProject(projectID uint64) ([]models.Task, error)

	// NameTaken reports a case-insensitive name collision within the
	// project, excluding excludeID (0 to exclude nothing).
	NameTaken(projectID uint64, name string, excludeID uint64) (bool, error)

	// Rename renames a task in one project-scoped statement.
	Rename(taskID, projectID uint64, name string) (int64, error)

	// SetActive toggles is_active in one project-scoped statement.
	SetActive(taskID, projectID uint64, active bool) (int64, error)

	// Delete deletes a task in one project-scoped statement, guarded by
	// the entry check in the same transaction. Returns ErrHasEntries when
	// time entries still reference the task.
	Delete(taskID, projectID uint64) (int64, error)
}

// EntryFilter holds the predicates for listing time entries.
type EntryFilter struct {
	ProjectID *uint64
	UserID    *uint64
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// ProjectSum is an aggregated approved total for one project.
type ProjectSum struct {
	ProjectID uint64
	Total     decimal.Decimal
}

// TaskSum is an aggregated approved total for one task.
type TaskSum struct {
	TaskID uint64
	Total  decimal.Decimal
}

// EntryRepository defines the interface for time entry data access.
//
// UpdatePending, DeletePending and SetStatus are guarded single-statement
// mutations: the authorization predicate lives in the WHERE clause, so the
// check and the mutation cannot race.
type EntryRepository interface {
	// Create creates a new entry
	Create(entry *models.TimeEntry) error

	// FindInProject finds an entry by ID, confirming it belongs to the project.
	FindInProject(entryID, projectID uint64) (*models.TimeEntry, error)

	// List lists entries matching the filter, newest entry date first.
	List(filter EntryFilter) ([]models.TimeEntry, int64, error)

	// UpdatePending overwrites the mutable fields of an entry, scoped to
	// owner, project and pending status.
	UpdatePending(entryID, userID, projectID uint64, date time.Time, taskID uint64, hours decimal.Decimal, note string) (int64, error)

	// DeletePending deletes an entry, scoped to owner, project and pending status.
	DeletePending(entryID, userID, projectID uint64) (int64, error)

	// SetStatus updates an entry's status, scoped to the project.
	SetStatus(entryID, projectID uint64, status models.EntryStatus) (int64, error)

	// SumApproved sums approved hours on active tasks for one project.
	// A non-nil userID restricts the sum to that user's entries.
	SumApproved(projectID uint64, userID *uint64) (decimal.Decimal, error)

	// SumApprovedByProject sums approved hours on active tasks, grouped per
	// project, for the given project IDs.
	SumApprovedByProject(projectIDs []uint64, userID *uint64) ([]ProjectSum, error)

	// SumApprovedByTask sums approved hours grouped per active task of one project.
	SumApprovedByTask(projectID uint64, userID *uint64) ([]TaskSum, error)
}
