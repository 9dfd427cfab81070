package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

// Budget status buckets derived from the used/planned ratio.
const (
	BudgetOver   = "over_budget"
	BudgetNear   = "near_full"
	BudgetWithin = "within_budget"
)

// nearFullThreshold marks a budget as nearly exhausted at 80% usage.
var nearFullThreshold = decimal.NewFromFloat(0.8)

// BudgetSummary compares approved hours against a project's planned budget.
type BudgetSummary struct {
	Planned decimal.Decimal `json:"planned_hours"`
	Used    decimal.Decimal `json:"used_hours"`
	Ratio   decimal.Decimal `json:"ratio"`
	Status  string          `json:"status"`
}

// TaskTotal is the approved hours rolled up for one task.
type TaskTotal struct {
	Task  models.Task
	Total decimal.Decimal
}

// ProjectReport is the full reporting view of a project: the overall
// approved total, the per-task breakdown and, when a budget is set, the
// budget summary.
type ProjectReport struct {
	Project    models.Project
	TotalHours decimal.Decimal
	TaskTotals []TaskTotal
	Budget     *BudgetSummary
}

// ReportService computes approved-hour aggregations. Only approved entries
// count, and only those logged against tasks that are still active; hours
// on a deactivated task drop out of every total until the task is
// reactivated. Employees see totals over their own entries only.
type ReportService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	entryRepo   repository.EntryRepository
}

// NewReportService creates a new ReportService.
func NewReportService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, entryRepo repository.EntryRepository) *ReportService {
	return &ReportService{projectRepo: projectRepo, taskRepo: taskRepo, entryRepo: entryRepo}
}

// scopeUser returns the user restriction for aggregation queries: nil for
// the manager tier (all users), the actor's own ID otherwise.
func scopeUser(actor models.Identity) *uint64 {
	if actor.ManagerTier() {
		return nil
	}
	return &actor.UserID
}

// ProjectTotal returns the approved active-task hours of one project,
// scoped to the actor's visibility.
func (s *ReportService) ProjectTotal(actor models.Identity, projectID uint64) (decimal.Decimal, error) {
	if _, err := s.projectRepo.FindVisible(projectID, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperrors.NewNotFoundError("project")
		}
		return decimal.Zero, fmt.Errorf("failed to find project: %w", err)
	}

	total, err := s.entryRepo.SumApproved(projectID, scopeUser(actor))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum hours: %w", err)
	}
	return total, nil
}

// ProjectTotals returns the approved totals for a set of projects in one
// grouped query, keyed by project ID. Projects without approved hours are
// present with a zero total.
func (s *ReportService) ProjectTotals(actor models.Identity, projects []models.Project) (map[uint64]decimal.Decimal, error) {
	totals := make(map[uint64]decimal.Decimal, len(projects))
	if len(projects) == 0 {
		return totals, nil
	}

	ids := make([]uint64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		totals[p.ID] = decimal.Zero
	}

	sums, err := s.entryRepo.SumApprovedByProject(ids, scopeUser(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}
	for _, sum := range sums {
		totals[sum.ProjectID] = sum.Total
	}
	return totals, nil
}

// TaskTotals returns the per-task approved totals of a project, one row
// per task in name order, zero for tasks without approved hours. The
// active-task filter applies here too: a deactivated task shows zero.
func (s *ReportService) TaskTotals(actor models.Identity, projectID uint64) ([]TaskTotal, error) {
	if _, err := s.projectRepo.FindVisible(projectID, actor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return s.taskTotals(actor, projectID)
}

func (s *ReportService) taskTotals(actor models.Identity, projectID uint64) ([]TaskTotal, error) {
	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	sums, err := s.entryRepo.SumApprovedByTask(projectID, scopeUser(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}
	byTask := make(map[uint64]decimal.Decimal, len(sums))
	for _, sum := range sums {
		byTask[sum.TaskID] = sum.Total
	}

	totals := make([]TaskTotal, 0, len(tasks))
	for _, task := range tasks {
		total, ok := byTask[task.ID]
		if !ok {
			total = decimal.Zero
		}
		totals = append(totals, TaskTotal{Task: task, Total: total})
	}
	return totals, nil
}

// Budget classifies used hours against the planned budget. It returns nil
// when the project has no budget or a zero budget: without a denominator
// there is nothing to report.
func Budget(planned decimal.NullDecimal, used decimal.Decimal) *BudgetSummary {
	if !planned.Valid || !planned.Decimal.IsPositive() {
		return nil
	}

	ratio := used.Div(planned.Decimal)
	status := BudgetWithin
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(1)):
		status = BudgetOver
	case ratio.GreaterThanOrEqual(nearFullThreshold):
		status = BudgetNear
	}

	return &BudgetSummary{
		Planned: planned.Decimal,
		Used:    used,
		Ratio:   ratio,
		Status:  status,
	}
}

// ProjectReport assembles the full report for one project: overall total,
// per-task breakdown and budget summary.
func (s *ReportService) ProjectReport(actor models.Identity, projectID uint64) (*ProjectReport, error) {
	project, err := s.projectRepo.FindVisible(projectID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	total, err := s.entryRepo.SumApproved(projectID, scopeUser(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}

	taskTotals, err := s.taskTotals(actor, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectReport{
		Project:    *project,
		TotalHours: total,
		TaskTotals: taskTotals,
		Budget:     Budget(project.PlannedHours, total),
	}, nil
}
