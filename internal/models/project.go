package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_projects_owner_name" json:"user_id"`
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_owner_name" json:"name"`
	// No column default: a default tag makes GORM drop a literal false on
	// insert. Creation sites set the flag explicitly.
	IsActive     bool                `gorm:"not null" json:"is_active"`
	PlannedHours decimal.NullDecimal `gorm:"type:decimal(7,2)" json:"planned_hours"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	// Relations
	Owner   User        `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Tasks   []Task      `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Entries []TimeEntry `gorm:"foreignKey:ProjectID" json:"-"`
}
