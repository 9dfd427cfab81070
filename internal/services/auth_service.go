package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rvdmeer/timesheet-api/internal/apperrors"
	"github.com/rvdmeer/timesheet-api/internal/constants"
	"github.com/rvdmeer/timesheet-api/internal/models"
	"github.com/rvdmeer/timesheet-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// RegisterInput holds the fields of the registration form.
type RegisterInput struct {
	Email    string
	Password string
	Confirm  string
}

// Register creates a new user with the employee role. Field problems
// accumulate into a single ValidationError; a taken email is a
// ConflictError on the email field.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	v := apperrors.NewValidationError()
	if email == "" {
		v.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "invalid email address")
	}
	if input.Password == "" {
		v.Add("password", "password is required")
	} else if len(input.Password) < constants.MinPasswordLength {
		v.Add("password", fmt.Sprintf("at least %d characters", constants.MinPasswordLength))
	}
	if input.Confirm != input.Password {
		v.Add("confirm", "passwords do not match")
	}
	if v.HasErrors() {
		return nil, v
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperrors.NewConflictError("email", "email address already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Unique index backstop for concurrent registrations.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError("email", "email address already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the authenticated user. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
