package repository

import (
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindInProject finds a task by ID, confirming project membership.
func (r *GormTaskRepository) FindInProject(taskID, projectID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("project_id = ?", projectID).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists all tasks of a project sorted by name.
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// NameTaken reports a case-insensitive name collision within the project.
func (r *GormTaskRepository) NameTaken(projectID uint64, name string, excludeID uint64) (bool, error) {
	query := r.db.Model(&models.Task{}).
		Where("project_id = ? AND LOWER(name) = LOWER(?)", projectID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rename renames a task in one project-scoped statement.
func (r *GormTaskRepository) Rename(taskID, projectID uint64, name string) (int64, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Update("name", name)
	return res.RowsAffected, res.Error
}

// SetActive toggles is_active in one project-scoped statement.
func (r *GormTaskRepository) SetActive(taskID, projectID uint64, active bool) (int64, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

// Delete deletes a task in one project-scoped statement. The entry guard
// runs in the same transaction so a concurrently logged entry cannot be
// orphaned.
func (r *GormTaskRepository) Delete(taskID, projectID uint64) (int64, error) {
	var rows int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entries int64
		if err := tx.Model(&models.TimeEntry{}).
			Where("task_id = ?", taskID).
			Count(&entries).Error; err != nil {
			return err
		}
		if entries > 0 {
			return ErrHasEntries
		}

		res := tx.Where("id = ? AND project_id = ?", taskID, projectID).
			Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		return nil
	})
	return rows, err
}
