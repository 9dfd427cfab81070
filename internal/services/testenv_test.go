package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/models"
)

// openTestDB creates an in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TimeEntry{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func identityOf(user *models.User) models.Identity {
	return models.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint64, name string, active bool) *models.Project {
	t.Helper()
	project := &models.Project{
		UserID:   ownerID,
		Name:     name,
		IsActive: active,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func seedTask(t *testing.T, db *gorm.DB, projectID uint64, name string, active bool) *models.Task {
	t.Helper()
	task := &models.Task{
		ProjectID: projectID,
		Name:      name,
		IsActive:  active,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func seedEntry(t *testing.T, db *gorm.DB, userID, projectID, taskID uint64, hours string, status models.EntryStatus) *models.TimeEntry {
	t.Helper()
	entry := &models.TimeEntry{
		UserID:    userID,
		ProjectID: projectID,
		TaskID:    taskID,
		EntryDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Hours:     decimal.RequireFromString(hours),
		Status:    status,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
