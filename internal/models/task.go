package models

import "time"

type Task struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;uniqueIndex:idx_tasks_project_name" json:"project_id"`
	Name      string `gorm:"type:varchar(255);not null;uniqueIndex:idx_tasks_project_name" json:"name"`
	// No column default, same reasoning as Project.IsActive.
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project Project     `gorm:"foreignKey:ProjectID" json:"-"`
	Entries []TimeEntry `gorm:"foreignKey:TaskID" json:"-"`
}

// TableName keeps the historical table name; the name is also referenced
// in raw join fragments inside the repositories.
func (Task) TableName() string {
	return "project_tasks"
}
