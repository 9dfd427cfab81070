package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses. Every
// transition between valid statuses is allowed; there is no terminal state.
func (s EntryStatus) Valid() bool {
	return s == EntryStatusPending || s == EntryStatusApproved || s == EntryStatusRejected
}

type TimeEntry struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	UserID    uint64          `gorm:"not null;index" json:"user_id"`
	ProjectID uint64          `gorm:"not null;index" json:"project_id"`
	TaskID    uint64          `gorm:"not null;index" json:"task_id"`
	EntryDate time.Time       `gorm:"type:date;not null" json:"entry_date"`
	Hours     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"`
	Note      string          `gorm:"type:text" json:"note"`
	Status    EntryStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	Task    Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
