package repository

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindVisible finds a project within the viewer's visibility scope.
// Employees only match their own rows; a miss is indistinguishable from
// the project not existing.
func (r *GormProjectRepository) FindVisible(projectID uint64, viewer models.Identity) (*models.Project, error) {
	query := r.db
	if !viewer.ManagerTier() {
		query = query.Where("user_id = ?", viewer.UserID)
	}

	var project models.Project
	if err := query.First(&project, projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindOwned finds a project scoped to its owner.
func (r *GormProjectRepository) FindOwned(projectID, ownerID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("user_id = ?", ownerID).First(&project, projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists projects matching the filter, active first then by name.
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	query := r.db.Model(&models.Project{})
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	var projects []models.Project
	if err := query.Order("is_active DESC, name ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// NameTaken reports whether the owner already has a project with the name.
func (r *GormProjectRepository) NameTaken(ownerID uint64, name string, excludeID uint64) (bool, error) {
	query := r.db.Model(&models.Project{}).
		Where("user_id = ? AND name = ?", ownerID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateOwned updates name and budget in one owner-scoped statement.
func (r *GormProjectRepository) UpdateOwned(projectID, ownerID uint64, name string, planned decimal.NullDecimal) (int64, error) {
	res := r.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, ownerID).
		Updates(map[string]interface{}{
			"name":          name,
			"planned_hours": planned,
		})
	return res.RowsAffected, res.Error
}

// SetActiveOwned toggles is_active in one owner-scoped statement.
// Idempotent: re-applying the same state matches the row and writes the
// same value again.
func (r *GormProjectRepository) SetActiveOwned(projectID, ownerID uint64, active bool) (int64, error) {
	res := r.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, ownerID).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

// DeleteOwned removes the project's tasks and then the project itself.
// The entry guard and both deletes run in one transaction, so an entry
// logged concurrently cannot slip past the check, and an ownership miss
// rolls the task deletion back.
func (r *GormProjectRepository) DeleteOwned(projectID, ownerID uint64) (int64, error) {
	var rows int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entries int64
		if err := tx.Model(&models.TimeEntry{}).
			Where("project_id = ?", projectID).
			Count(&entries).Error; err != nil {
			return err
		}
		if entries > 0 {
			return ErrHasEntries
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", projectID, ownerID).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		if rows == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return rows, err
}
