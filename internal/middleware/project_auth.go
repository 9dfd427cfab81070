package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/database"
	"github.com/rvdmeer/timesheet-api/internal/models"
)

// RequireProjectAccess checks if the user can see the project. Managers
// and admins see every project; employees only their own. A project
// outside the caller's scope answers 404, never 403, so project IDs do
// not leak across users.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apperrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		identity, exists := GetIdentity(c)
		if !exists {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		query := database.GetDB().Where("id = ?", projectID)
		if !identity.ManagerTier() {
			query = query.Where("user_id = ?", identity.UserID)
		}

		var project models.Project
		if err := query.First(&project).Error; err != nil {
			apperrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
