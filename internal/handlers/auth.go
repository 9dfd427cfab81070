package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/dto"
	"github.com/rvdmeer/timesheet-api/internal/middleware"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// startSession writes the authenticated identity into the session.
func startSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyUserEmail, user.Email)
	session.Set(constants.SessionKeyUserRole, string(user.Role))
	return session.Save()
}

// Register creates a new user account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := startSession(c, user); err != nil {
		apperrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apperrors.Unauthorized(c, err.Error())
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if err := startSession(c, user); err != nil {
		apperrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apperrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apperrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apperrors.NotFound(c, err.Error())
			return
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
