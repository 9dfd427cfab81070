package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

type EntryServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *EntryService
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.db = openTestDB(suite.T())
	suite.service = NewEntryService(
		repository.NewEntryRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
	)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_StartsPending() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)

	entry, err := suite.service.CreateEntry(identityOf(owner), project.ID, EntryInput{
		Date:   "2026-03-10",
		TaskID: task.ID,
		Hours:  decimal.RequireFromString("1.5"),
		Note:   "wireframes",
	})
	suite.Require().NoError(err)

	suite.Equal(models.EntryStatusPending, entry.Status)
	suite.Equal(owner.ID, entry.UserID)
	suite.True(entry.Hours.Equal(decimal.RequireFromString("1.5")))
}

func (suite *EntryServiceTestSuite) TestCreateEntry_AccumulatesAllFieldErrors() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)

	_, err := suite.service.CreateEntry(identityOf(owner), project.ID, EntryInput{
		Date:   "10/03/2026",
		TaskID: 0,
		Hours:  decimal.NewFromInt(25),
	})

	var v *apperrors.ValidationError
	suite.Require().ErrorAs(err, &v)
	suite.True(v.HasField("entry_date"))
	suite.True(v.HasField("task_id"))
	suite.True(v.HasField("hours"))
	suite.Len(v.Fields, 3)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InactiveTaskRejected() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Retired", false)

	_, err := suite.service.CreateEntry(identityOf(owner), project.ID, EntryInput{
		Date:   "2026-03-10",
		TaskID: task.ID,
		Hours:  decimal.NewFromInt(2),
	})

	var v *apperrors.ValidationError
	suite.Require().ErrorAs(err, &v)
	suite.True(v.HasField("task_id"))
}

func (suite *EntryServiceTestSuite) TestCreateEntry_TaskFromOtherProjectRejected() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	projectA := seedProject(suite.T(), suite.db, owner.ID, "Alpha", true)
	projectB := seedProject(suite.T(), suite.db, owner.ID, "Beta", true)
	foreign := seedTask(suite.T(), suite.db, projectB.ID, "Design", true)

	_, err := suite.service.CreateEntry(identityOf(owner), projectA.ID, EntryInput{
		Date:   "2026-03-10",
		TaskID: foreign.ID,
		Hours:  decimal.NewFromInt(2),
	})

	var v *apperrors.ValidationError
	suite.Require().ErrorAs(err, &v)
	suite.True(v.HasField("task_id"))
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InvisibleProjectIsNotFound() {
	alice := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	bob := seedUser(suite.T(), suite.db, "bob@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, alice.ID, "Alpha", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)

	_, err := suite.service.CreateEntry(identityOf(bob), project.ID, EntryInput{
		Date:   "2026-03-10",
		TaskID: task.ID,
		Hours:  decimal.NewFromInt(2),
	})

	var notFound *apperrors.NotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_OwnerWhilePending() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)

	updated, err := suite.service.UpdateEntry(identityOf(owner), project.ID, entry.ID, EntryInput{
		Date:   "2026-03-11",
		TaskID: task.ID,
		Hours:  decimal.RequireFromString("3.25"),
		Note:   "revised",
	})
	suite.Require().NoError(err)

	suite.True(updated.Hours.Equal(decimal.RequireFromString("3.25")))
	suite.Equal("revised", updated.Note)
	suite.Equal(models.EntryStatusPending, updated.Status)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_ApprovedIsForbidden() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusApproved)

	_, err := suite.service.UpdateEntry(identityOf(owner), project.ID, entry.ID, EntryInput{
		Date:   "2026-03-11",
		TaskID: task.ID,
		Hours:  decimal.NewFromInt(3),
	})

	var forbidden *apperrors.ForbiddenError
	suite.ErrorAs(err, &forbidden)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_OtherUserIsForbidden() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	manager := seedUser(suite.T(), suite.db, "boss@example.com", models.RoleManager)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)

	// Managers approve entries, they do not edit them.
	_, err := suite.service.UpdateEntry(identityOf(manager), project.ID, entry.ID, EntryInput{
		Date:   "2026-03-11",
		TaskID: task.ID,
		Hours:  decimal.NewFromInt(3),
	})

	var forbidden *apperrors.ForbiddenError
	suite.ErrorAs(err, &forbidden)
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_PendingOnly() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	pending := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)
	approved := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "4", models.EntryStatusApproved)

	suite.Require().NoError(suite.service.DeleteEntry(identityOf(owner), project.ID, pending.ID))

	var forbidden *apperrors.ForbiddenError
	err := suite.service.DeleteEntry(identityOf(owner), project.ID, approved.ID)
	suite.ErrorAs(err, &forbidden)

	var count int64
	suite.db.Model(&models.TimeEntry{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *EntryServiceTestSuite) TestSetEntryStatus_ManagerOnly() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)

	_, err := suite.service.SetEntryStatus(identityOf(owner), project.ID, entry.ID, models.EntryStatusApproved)

	var forbidden *apperrors.ForbiddenError
	suite.ErrorAs(err, &forbidden)
}

func (suite *EntryServiceTestSuite) TestSetEntryStatus_AllTransitionsAllowed() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	manager := seedUser(suite.T(), suite.db, "boss@example.com", models.RoleManager)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)

	for _, status := range []models.EntryStatus{
		models.EntryStatusApproved,
		models.EntryStatusRejected,
		models.EntryStatusPending,
		models.EntryStatusApproved,
	} {
		updated, err := suite.service.SetEntryStatus(identityOf(manager), project.ID, entry.ID, status)
		suite.Require().NoError(err)
		suite.Equal(status, updated.Status)
	}
}

func (suite *EntryServiceTestSuite) TestSetEntryStatus_InvalidStatus() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	manager := seedUser(suite.T(), suite.db, "boss@example.com", models.RoleManager)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, project.ID, task.ID, "2", models.EntryStatusPending)

	_, err := suite.service.SetEntryStatus(identityOf(manager), project.ID, entry.ID, "archived")

	var v *apperrors.ValidationError
	suite.Require().ErrorAs(err, &v)
	suite.True(v.HasField("status"))
}

func (suite *EntryServiceTestSuite) TestSetEntryStatus_WrongProjectIsNotFound() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	manager := seedUser(suite.T(), suite.db, "boss@example.com", models.RoleManager)
	projectA := seedProject(suite.T(), suite.db, owner.ID, "Alpha", true)
	projectB := seedProject(suite.T(), suite.db, owner.ID, "Beta", true)
	task := seedTask(suite.T(), suite.db, projectB.ID, "Design", true)
	entry := seedEntry(suite.T(), suite.db, owner.ID, projectB.ID, task.ID, "2", models.EntryStatusPending)

	_, err := suite.service.SetEntryStatus(identityOf(manager), projectA.ID, entry.ID, models.EntryStatusApproved)

	var notFound *apperrors.NotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *EntryServiceTestSuite) TestListProjectEntries_RoleScoping() {
	alice := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	bob := seedUser(suite.T(), suite.db, "bob@example.com", models.RoleEmployee)
	manager := seedUser(suite.T(), suite.db, "boss@example.com", models.RoleManager)
	project := seedProject(suite.T(), suite.db, alice.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)
	seedEntry(suite.T(), suite.db, alice.ID, project.ID, task.ID, "2", models.EntryStatusPending)
	seedEntry(suite.T(), suite.db, bob.ID, project.ID, task.ID, "3", models.EntryStatusPending)

	own, total, err := suite.service.ListProjectEntries(identityOf(alice), ListEntriesInput{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(own, 1)
	suite.Equal(alice.ID, own[0].UserID)

	all, total, err := suite.service.ListProjectEntries(identityOf(manager), ListEntriesInput{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(all, 2)
}

func (suite *EntryServiceTestSuite) TestListProjectEntries_DateFilterAndPagination() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	project := seedProject(suite.T(), suite.db, owner.ID, "Project", true)
	task := seedTask(suite.T(), suite.db, project.ID, "Design", true)

	for day := 1; day <= 5; day++ {
		entry := &models.TimeEntry{
			UserID:    owner.ID,
			ProjectID: project.ID,
			TaskID:    task.ID,
			EntryDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Hours:     decimal.NewFromInt(1),
			Status:    models.EntryStatusPending,
		}
		suite.Require().NoError(suite.db.Create(entry).Error)
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	entries, total, err := suite.service.ListProjectEntries(identityOf(owner), ListEntriesInput{
		ProjectID: project.ID,
		From:      &from,
		To:        &to,
		Page:      1,
		PageSize:  2,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(entries, 2)
	// Newest first.
	suite.Equal(4, entries[0].EntryDate.Day())
}

func (suite *EntryServiceTestSuite) TestListOwnEntries_CrossProject() {
	owner := seedUser(suite.T(), suite.db, "alice@example.com", models.RoleEmployee)
	projectA := seedProject(suite.T(), suite.db, owner.ID, "Alpha", true)
	projectB := seedProject(suite.T(), suite.db, owner.ID, "Beta", true)
	taskA := seedTask(suite.T(), suite.db, projectA.ID, "Design", true)
	taskB := seedTask(suite.T(), suite.db, projectB.ID, "Build", true)
	seedEntry(suite.T(), suite.db, owner.ID, projectA.ID, taskA.ID, "2", models.EntryStatusPending)
	seedEntry(suite.T(), suite.db, owner.ID, projectB.ID, taskB.ID, "3", models.EntryStatusApproved)

	entries, total, err := suite.service.ListOwnEntries(identityOf(owner), nil, nil, 1, 20)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(entries, 2)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
