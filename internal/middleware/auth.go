package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/models"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.SessionKeyUserID)

		if userID == nil {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		identity := models.Identity{
			UserID: asUint64(userID),
			Email:  asString(session.Get(constants.SessionKeyUserEmail)),
			Role:   models.Role(asString(session.Get(constants.SessionKeyUserRole))),
		}
		if identity.UserID == 0 || !identity.Role.Valid() {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

// asUint64 normalizes the session value: gob round-trips may widen or
// narrow the integer type depending on the store.
func asUint64(value interface{}) uint64 {
	switch v := value.(type) {
	case uint64:
		return v
	case uint:
		return uint64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int:
		if v < 0 {
			return 0
		}
		return uint64(v)
	default:
		return 0
	}
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}
