package models

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ManagerTier reports whether the role carries manager privileges.
// Manager and admin are treated identically everywhere.
func (r Role) ManagerTier() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager || r == RoleAdmin
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Projects []Project   `gorm:"foreignKey:UserID" json:"-"`
	Entries  []TimeEntry `gorm:"foreignKey:UserID" json:"-"`
}

// Identity is the authenticated caller, resolved by the transport layer
// and passed explicitly into every service call. The core never consults
// ambient session state.
type Identity struct {
	UserID uint64
	Email  string
	Role   Role
}

func (id Identity) ManagerTier() bool {
	return id.Role.ManagerTier()
}
