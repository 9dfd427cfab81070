package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// BudgetDTO represents a project's budget usage in API responses. It is
// omitted entirely when the project has no planned hours.
type BudgetDTO struct {
	PlannedHours decimal.Decimal `json:"planned_hours"`
	UsedHours    decimal.Decimal `json:"used_hours"`
	Ratio        decimal.Decimal `json:"ratio"`
	Status       string          `json:"status"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID           uint64           `json:"id"`
	UserID       uint64           `json:"user_id"`
	Name         string           `json:"name"`
	IsActive     bool             `json:"is_active"`
	PlannedHours *decimal.Decimal `json:"planned_hours"`
	TotalHours   decimal.Decimal  `json:"total_hours"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Owner        *UserDTO         `json:"owner,omitempty"`
	Budget       *BudgetDTO       `json:"budget,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID         uint64          `json:"id"`
	ProjectID  uint64          `json:"project_id"`
	Name       string          `json:"name"`
	IsActive   bool            `json:"is_active"`
	TotalHours decimal.Decimal `json:"total_hours"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProjectReportDTO represents the reporting view of a project
type ProjectReportDTO struct {
	Project    ProjectDTO `json:"project"`
	TotalHours string     `json:"total_hours"`
	Tasks      []TaskDTO  `json:"tasks"`
	Budget     *BudgetDTO `json:"budget,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToBudgetDTO converts a budget summary to BudgetDTO
func ToBudgetDTO(summary *services.BudgetSummary) *BudgetDTO {
	if summary == nil {
		return nil
	}
	return &BudgetDTO{
		PlannedHours: summary.Planned,
		UsedHours:    summary.Used,
		Ratio:        summary.Ratio.Round(4),
		Status:       summary.Status,
	}
}

// ToProjectDTO converts a Project model plus its approved total to ProjectDTO
func ToProjectDTO(project models.Project, total decimal.Decimal) ProjectDTO {
	dto := ProjectDTO{
		ID:         project.ID,
		UserID:     project.UserID,
		Name:       project.Name,
		IsActive:   project.IsActive,
		TotalHours: total,
		CreatedAt:  project.CreatedAt,
		UpdatedAt:  project.UpdatedAt,
	}

	if project.PlannedHours.Valid {
		planned := project.PlannedHours.Decimal
		dto.PlannedHours = &planned
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	dto.Budget = ToBudgetDTO(services.Budget(project.PlannedHours, total))

	return dto
}

// ToTaskDTO converts a Task model plus its approved total to TaskDTO
func ToTaskDTO(task models.Task, total decimal.Decimal) TaskDTO {
	return TaskDTO{
		ID:         task.ID,
		ProjectID:  task.ProjectID,
		Name:       task.Name,
		IsActive:   task.IsActive,
		TotalHours: total,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

// ToProjectReportDTO converts a ProjectReport to its API shape
func ToProjectReportDTO(report *services.ProjectReport) ProjectReportDTO {
	tasks := make([]TaskDTO, len(report.TaskTotals))
	for i, tt := range report.TaskTotals {
		tasks[i] = ToTaskDTO(tt.Task, tt.Total)
	}

	return ProjectReportDTO{
		Project:    ToProjectDTO(report.Project, report.TotalHours),
		TotalHours: report.TotalHours.StringFixed(2),
		Tasks:      tasks,
		Budget:     ToBudgetDTO(report.Budget),
	}
}
