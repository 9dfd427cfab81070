package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/database"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

// EntryHandlerTestSuite defines the test suite for EntryHandler
type EntryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *EntryHandler
}

// SetupTest runs before each test
func (suite *EntryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TimeEntry{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	entryService := services.NewEntryService(
		repository.NewEntryRepository(suite.db),
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
	)
	suite.handler = NewEntryHandler(entryService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *EntryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *EntryHandlerTestSuite) createTestUser(email string, role models.Role) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *EntryHandlerTestSuite) createTestProject(ownerID uint64, name string) *models.Project {
	project := &models.Project{
		UserID:   ownerID,
		Name:     name,
		IsActive: true,
	}
	suite.db.Create(project)
	return project
}

func (suite *EntryHandlerTestSuite) createTestTask(projectID uint64, name string, active bool) *models.Task {
	task := &models.Task{
		ProjectID: projectID,
		Name:      name,
		IsActive:  active,
	}
	suite.db.Create(task)
	return task
}

func (suite *EntryHandlerTestSuite) createTestEntry(userID, projectID, taskID uint64, status models.EntryStatus) *models.TimeEntry {
	entry := &models.TimeEntry{
		UserID:    userID,
		ProjectID: projectID,
		TaskID:    taskID,
		EntryDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Hours:     decimal.NewFromInt(2),
		Status:    status,
	}
	suite.db.Create(entry)
	return entry
}

// createAuthContext simulates RequireAuth and RequireProjectAccess
func (suite *EntryHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User, project *models.Project) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyIdentity, models.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if project != nil {
		c.Set(constants.ContextKeyProject, *project)
	}

	return c, w
}

func (suite *EntryHandlerTestSuite) setEntryParam(c *gin.Context, entryID uint64) {
	c.Params = append(c.Params, gin.Param{Key: "entryId", Value: strconv.FormatUint(entryID, 10)})
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_Success() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	project := suite.createTestProject(user.ID, "Project")
	task := suite.createTestTask(project.ID, "Design", true)

	body, _ := json.Marshal(map[string]interface{}{
		"entry_date": "2026-03-10",
		"task_id":    task.ID,
		"hours":      "1.5",
		"note":       "wireframes",
	})
	c, w := suite.createAuthContext("POST", "/api/projects/1/entries", body, user, project)

	suite.handler.CreateEntry(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "pending", response["status"])
	assert.Equal(suite.T(), "2026-03-10", response["entry_date"])
}

func (suite *EntryHandlerTestSuite) TestCreateEntry_ValidationErrors() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	project := suite.createTestProject(user.ID, "Project")

	body, _ := json.Marshal(map[string]interface{}{
		"entry_date": "bad-date",
		"task_id":    0,
		"hours":      "0",
	})
	c, w := suite.createAuthContext("POST", "/api/projects/1/entries", body, user, project)

	suite.handler.CreateEntry(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_INPUT", response.Code)
	assert.Len(suite.T(), response.Fields, 3)
}

func (suite *EntryHandlerTestSuite) TestUpdateEntry_ApprovedIsForbidden() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	project := suite.createTestProject(user.ID, "Project")
	task := suite.createTestTask(project.ID, "Design", true)
	entry := suite.createTestEntry(user.ID, project.ID, task.ID, models.EntryStatusApproved)

	body, _ := json.Marshal(map[string]interface{}{
		"entry_date": "2026-03-11",
		"task_id":    task.ID,
		"hours":      "3",
	})
	c, w := suite.createAuthContext("PUT", "/api/projects/1/entries/1", body, user, project)
	suite.setEntryParam(c, entry.ID)

	suite.handler.UpdateEntry(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *EntryHandlerTestSuite) TestSetEntryStatus_ManagerApproves() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	manager := suite.createTestUser("boss@example.com", models.RoleManager)
	project := suite.createTestProject(user.ID, "Project")
	task := suite.createTestTask(project.ID, "Design", true)
	entry := suite.createTestEntry(user.ID, project.ID, task.ID, models.EntryStatusPending)

	body, _ := json.Marshal(map[string]string{"status": "approved"})
	c, w := suite.createAuthContext("PUT", "/api/projects/1/entries/1/status", body, manager, project)
	suite.setEntryParam(c, entry.ID)

	suite.handler.SetEntryStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "approved", response["status"])
}

func (suite *EntryHandlerTestSuite) TestSetEntryStatus_EmployeeForbidden() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	project := suite.createTestProject(user.ID, "Project")
	task := suite.createTestTask(project.ID, "Design", true)
	entry := suite.createTestEntry(user.ID, project.ID, task.ID, models.EntryStatusPending)

	body, _ := json.Marshal(map[string]string{"status": "approved"})
	c, w := suite.createAuthContext("PUT", "/api/projects/1/entries/1/status", body, user, project)
	suite.setEntryParam(c, entry.ID)

	suite.handler.SetEntryStatus(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *EntryHandlerTestSuite) TestListEntries_Paginated() {
	user := suite.createTestUser("alice@example.com", models.RoleEmployee)
	project := suite.createTestProject(user.ID, "Project")
	task := suite.createTestTask(project.ID, "Design", true)
	suite.createTestEntry(user.ID, project.ID, task.ID, models.EntryStatusPending)
	suite.createTestEntry(user.ID, project.ID, task.ID, models.EntryStatusApproved)

	c, w := suite.createAuthContext("GET", "/api/projects/1/entries", nil, user, project)

	suite.handler.ListEntries(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(suite.T(), response, "entries")
	assert.Contains(suite.T(), response, "pagination")

	entries := response["entries"].([]interface{})
	assert.Len(suite.T(), entries, 2)
}

func TestEntryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EntryHandlerTestSuite))
}
