package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/database"
	"github.com/rvdmeer/timesheet-api/internal/models"
)

// GormEntryRepository is a GORM implementation of EntryRepository
type GormEntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &GormEntryRepository{db: db}
}

// Create creates a new entry
func (r *GormEntryRepository) Create(entry *models.TimeEntry) error {
	return r.db.Create(entry).Error
}

// FindInProject finds an entry by ID, confirming project membership.
func (r *GormEntryRepository) FindInProject(entryID, projectID uint64) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := r.db.Preload("Task").Preload("User").
		Where("project_id = ?", projectID).
		First(&entry, entryID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List lists entries matching the filter, newest entry date first.
func (r *GormEntryRepository) List(filter EntryFilter) ([]models.TimeEntry, int64, error) {
	query := r.db.Model(&models.TimeEntry{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TimeEntry
	err := query.
		Preload("Task").
		Preload("User").
		Order("entry_date DESC, id DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// UpdatePending overwrites the mutable fields of an entry. The WHERE clause
// carries the full owner+project+pending precondition, making the check and
// the mutation one atomic statement; GORM refreshes updated_at.
func (r *GormEntryRepository) UpdatePending(entryID, userID, projectID uint64, date time.Time, taskID uint64, hours decimal.Decimal, note string) (int64, error) {
	res := r.db.Model(&models.TimeEntry{}).
		Where("id = ? AND user_id = ? AND project_id = ? AND status = ?",
			entryID, userID, projectID, models.EntryStatusPending).
		Updates(map[string]interface{}{
			"entry_date": date,
			"task_id":    taskID,
			"hours":      hours,
			"note":       note,
		})
	return res.RowsAffected, res.Error
}

// DeletePending deletes an entry under the same guard as UpdatePending.
func (r *GormEntryRepository) DeletePending(entryID, userID, projectID uint64) (int64, error) {
	res := r.db.Where("id = ? AND user_id = ? AND project_id = ? AND status = ?",
		entryID, userID, projectID, models.EntryStatusPending).
		Delete(&models.TimeEntry{})
	return res.RowsAffected, res.Error
}

// SetStatus updates an entry's status in one project-scoped statement.
func (r *GormEntryRepository) SetStatus(entryID, projectID uint64, status models.EntryStatus) (int64, error) {
	res := r.db.Model(&models.TimeEntry{}).
		Where("id = ? AND project_id = ?", entryID, projectID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// approvedActive restricts a time_entries query to approved hours on
// tasks that are still active (entries whose task row is gone count too;
// deletion guards normally prevent that state).
func (r *GormEntryRepository) approvedActive(query *gorm.DB) *gorm.DB {
	return query.
		Joins("LEFT JOIN project_tasks ON project_tasks.id = time_entries.task_id").
		Where("time_entries.status = ?", models.EntryStatusApproved).
		Where("project_tasks.is_active = ? OR project_tasks.id IS NULL", true)
}

// SumApproved sums approved hours on active tasks for one project.
func (r *GormEntryRepository) SumApproved(projectID uint64, userID *uint64) (decimal.Decimal, error) {
	query := r.approvedActive(r.db.Model(&models.TimeEntry{})).
		Where("time_entries.project_id = ?", projectID)
	if userID != nil {
		query = query.Where("time_entries.user_id = ?", *userID)
	}

	var total decimal.Decimal
	err := query.Select("COALESCE(SUM(time_entries.hours), 0)").Scan(&total).Error
	return total, err
}

// SumApprovedByProject sums approved hours on active tasks per project.
func (r *GormEntryRepository) SumApprovedByProject(projectIDs []uint64, userID *uint64) ([]ProjectSum, error) {
	if len(projectIDs) == 0 {
		return []ProjectSum{}, nil
	}

	query := r.approvedActive(r.db.Model(&models.TimeEntry{})).
		Where("time_entries.project_id IN ?", projectIDs)
	if userID != nil {
		query = query.Where("time_entries.user_id = ?", *userID)
	}

	var sums []ProjectSum
	err := query.
		Select("time_entries.project_id AS project_id, COALESCE(SUM(time_entries.hours), 0) AS total").
		Group("time_entries.project_id").
		Scan(&sums).Error
	return sums, err
}

// SumApprovedByTask sums approved hours per active task of one project.
func (r *GormEntryRepository) SumApprovedByTask(projectID uint64, userID *uint64) ([]TaskSum, error) {
	query := r.approvedActive(r.db.Model(&models.TimeEntry{})).
		Where("time_entries.project_id = ?", projectID)
	if userID != nil {
		query = query.Where("time_entries.user_id = ?", *userID)
	}

	var sums []TaskSum
	err := query.
		Select("time_entries.task_id AS task_id, COALESCE(SUM(time_entries.hours), 0) AS total").
		Group("time_entries.task_id").
		Scan(&sums).Error
	return sums, err
}
