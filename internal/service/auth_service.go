package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/SAITARUN432/backendblog/internal/auth"
	"github.com/SAITARUN432/backendblog/internal/middleware"
	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AdminDisplayName is the userName returned for the configured admin.
const AdminDisplayName = "Admin"

type AuthService struct {
	users         repository.UserRepository
	jwtSecret     string
	adminEmail    string
	adminPassword string
	now           func() time.Time
}

type AuthConfig struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserName string `json:"userName"`
}

func NewAuthService(users repository.UserRepository, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     cfg.JWTSecret,
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
		now:           time.Now,
	}
}

// Login authenticates the configured admin or a stored user and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if s.jwtSecret == "" {
		middleware.Logger.ErrorContext(ctx, "login attempted without JWT_SECRET configured")
		return nil, models.NewConfigError("JWT secret not configured")
	}
	if in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	if s.isAdmin(in.Email, in.Password) {
		token, err := auth.Issue(s.jwtSecret, auth.Claims{Email: in.Email, Role: models.RoleAdmin}, s.now())
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return &LoginResult{Token: token, Role: models.RoleAdmin, UserName: AdminDisplayName}, nil
	}

	user, err := s.findUser(ctx, in.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		middleware.Logger.InfoContext(ctx, "login rejected", slog.String("reason", "password mismatch"))
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := auth.Issue(s.jwtSecret, auth.Claims{ID: user.ID, Role: models.RoleUser}, s.now())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &LoginResult{Token: token, Role: models.RoleUser, UserName: user.Name}, nil
}

// findUser looks the email up as given and falls back to the normalized form
// registration stores. Accounts saved with mixed case still match exactly.
func (s *AuthService) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user != nil {
		return user, err
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == email {
		return nil, nil
	}
	return s.users.GetByEmail(ctx, normalized)
}

// isAdmin compares against the configured admin credentials in constant time.
// An unset admin never matches.
func (s *AuthService) isAdmin(email, password string) bool {
	if s.adminEmail == "" || s.adminPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return emailOK && passOK
}
