package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

// TaskService handles the task lifecycle. Task mutation is reserved for
// the owner of the parent project; the task must additionally be confirmed
// to belong to the project in scope before any mutation.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

// CreateTask creates an active task in the project. Task names are unique
// per project, case-insensitively.
func (s *TaskService) CreateTask(actor models.Identity, projectID uint64, name string) (*models.Task, error) {
	if err := s.ensureProjectOwner(actor, projectID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		v := apperrors.NewValidationError()
		v.Add("name", "task name is required")
		return nil, v
	}

	taken, err := s.taskRepo.NameTaken(projectID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check task name: %w", err)
	}
	if taken {
		return nil, apperrors.NewConflictError("name", "a task with this name already exists in this project")
	}

	task := &models.Task{
		ProjectID: projectID,
		Name:      name,
		IsActive:  true,
	}

	if err := s.taskRepo.Create(task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError("name", "a task with this name already exists in this project")
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// RenameTask renames a task after confirming it belongs to the project.
func (s *TaskService) RenameTask(actor models.Identity, projectID, taskID uint64, name string) error {
	if err := s.ensureProjectOwner(actor, projectID); err != nil {
		return err
	}
	if err := s.ensureTaskInProject(taskID, projectID); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		v := apperrors.NewValidationError()
		v.Add("name", "task name is required")
		return v
	}

	taken, err := s.taskRepo.NameTaken(projectID, name, taskID)
	if err != nil {
		return fmt.Errorf("failed to check task name: %w", err)
	}
	if taken {
		return apperrors.NewConflictError("name", "a task with this name already exists in this project")
	}

	rows, err := s.taskRepo.Rename(taskID, projectID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("name", "a task with this name already exists in this project")
		}
		return fmt.Errorf("failed to rename task: %w", err)
	}
	if rows == 0 {
		return apperrors.NewForbiddenError("task does not belong to this project")
	}

	return nil
}

// SetTaskActive toggles a task's active flag. Deactivation leaves existing
// entries untouched; it only blocks new entries and stops the task's hours
// from counting toward the budget.
func (s *TaskService) SetTaskActive(actor models.Identity, projectID, taskID uint64, active bool) error {
	if err := s.ensureProjectOwner(actor, projectID); err != nil {
		return err
	}
	if err := s.ensureTaskInProject(taskID, projectID); err != nil {
		return err
	}

	rows, err := s.taskRepo.SetActive(taskID, projectID, active)
	if err != nil {
		return fmt.Errorf("failed to update task state: %w", err)
	}
	if rows == 0 {
		return apperrors.NewForbiddenError("task does not belong to this project")
	}

	return nil
}

// DeleteTask deletes a task unless any time entry references it, counted
// regardless of who logged the entry or its status.
func (s *TaskService) DeleteTask(actor models.Identity, projectID, taskID uint64) error {
	if err := s.ensureProjectOwner(actor, projectID); err != nil {
		return err
	}
	if err := s.ensureTaskInProject(taskID, projectID); err != nil {
		return err
	}

	rows, err := s.taskRepo.Delete(taskID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrHasEntries) {
			return apperrors.NewPreconditionError(apperrors.ReasonHasEntries,
				"hours are recorded on this task; it cannot be deleted")
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return apperrors.NewForbiddenError("task does not belong to this project")
	}

	return nil
}

// ListTasks lists all tasks of a project visible to the actor.
func (s *TaskService) ListTasks(actor models.Identity, projectID uint64) ([]models.Task, error) {
	if _, err := s.projectRepo.FindVisible(projectID, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ensureProjectOwner fails closed: a project the actor does not own is
// reported as absent, even to the manager tier.
func (s *TaskService) ensureProjectOwner(actor models.Identity, projectID uint64) error {
	if _, err := s.projectRepo.FindOwned(projectID, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("project")
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

func (s *TaskService) ensureTaskInProject(taskID, projectID uint64) error {
	if _, err := s.taskRepo.FindInProject(taskID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewForbiddenError("task does not belong to this project")
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	return nil
}
