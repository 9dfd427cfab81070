package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

// ProjectService handles the project lifecycle. Every mutation is scoped
// to the project's owner: the manager tier has project-wide visibility but
// no mutation override (see DESIGN.md).
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// CreateProject creates an active project with no budget, owned by the actor.
func (s *ProjectService) CreateProject(actor models.Identity, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		v := apperrors.NewValidationError()
		v.Add("name", "project name is required")
		return nil, v
	}

	taken, err := s.projectRepo.NameTaken(actor.UserID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		return nil, apperrors.NewConflictError("name", "a project with this name already exists")
	}

	project := &models.Project{
		UserID:   actor.UserID,
		Name:     name,
		IsActive: true,
	}

	if err := s.projectRepo.Create(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError("name", "a project with this name already exists")
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// RenameProject updates a project's name and hour budget in place. Only
// the owner matches the scoped update; anyone else sees "not found".
func (s *ProjectService) RenameProject(actor models.Identity, projectID uint64, name string, planned *decimal.Decimal) error {
	name = strings.TrimSpace(name)

	v := apperrors.NewValidationError()
	if name == "" {
		v.Add("name", "project name is required")
	}
	if planned != nil {
		max := decimal.NewFromInt(constants.MaxPlannedHours)
		if planned.IsNegative() || planned.GreaterThan(max) {
			v.Add("planned_hours", fmt.Sprintf("hour budget must be between 0 and %d", constants.MaxPlannedHours))
		}
	}
	if v.HasErrors() {
		return v
	}

	taken, err := s.projectRepo.NameTaken(actor.UserID, name, projectID)
	if err != nil {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		return apperrors.NewConflictError("name", "a project with this name already exists")
	}

	budget := decimal.NullDecimal{}
	if planned != nil {
		budget = decimal.NullDecimal{Decimal: *planned, Valid: true}
	}

	rows, err := s.projectRepo.UpdateOwned(projectID, actor.UserID, name, budget)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("name", "a project with this name already exists")
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("project")
	}

	return nil
}

// SetProjectActive toggles a project's active flag. Idempotent.
func (s *ProjectService) SetProjectActive(actor models.Identity, projectID uint64, active bool) error {
	rows, err := s.projectRepo.SetActiveOwned(projectID, actor.UserID, active)
	if err != nil {
		return fmt.Errorf("failed to update project state: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("project")
	}
	return nil
}

// DeleteProject deletes an inactive project with no recorded hours,
// cascading over its tasks. The two guard failures are distinguishable so
// the caller can tell "deactivate first" from "remove the hours first".
func (s *ProjectService) DeleteProject(actor models.Identity, projectID uint64) error {
	project, err := s.projectRepo.FindOwned(projectID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("project")
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if project.IsActive {
		return apperrors.NewPreconditionError(apperrors.ReasonProjectActive,
			"deactivate the project before deleting it")
	}

	rows, err := s.projectRepo.DeleteOwned(projectID, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrHasEntries) {
			return apperrors.NewPreconditionError(apperrors.ReasonHasEntries,
				"hours are recorded on this project; remove them first")
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("project")
	}

	return nil
}

// ListProjects lists projects visible to the actor: employees see their
// own, the manager tier sees everyone's. Inactive projects are hidden
// unless includeInactive is set.
func (s *ProjectService) ListProjects(actor models.Identity, includeInactive bool) ([]models.Project, error) {
	filter := repository.ProjectFilter{IncludeInactive: includeInactive}
	if !actor.ManagerTier() {
		filter.OwnerID = &actor.UserID
	}

	projects, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a single project within the actor's visibility scope.
func (s *ProjectService) GetProject(actor models.Identity, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindVisible(projectID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
