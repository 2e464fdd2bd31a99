package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Add(ctx context.Context, user *models.User) error
}

// Session is what a successful login hands back to the client.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users  UserStore
	issuer *auth.Issuer
	logger zerolog.Logger
}

func NewAuthService(users UserStore, issuer *auth.Issuer) *AuthService {
	return &AuthService{
		users:  users,
		issuer: issuer,
		logger: log.With().Str("service", "AuthService").Logger(),
	}
}

// Setup creates the first admin account. It refuses once any admin exists.
func (s *AuthService) Setup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errs.NewBadRequestError("Admin credentials are not configured")
	}

	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, errs.NewDatabaseError("count", "Users", err)
	}
	if count > 0 {
		return nil, errs.NewBadRequestError("Admin user already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.users.Add(ctx, user); err != nil {
		return nil, errs.NewDatabaseError("create", "User", err)
	}

	s.logger.Info().Str("username", username).Msg("admin user created")
	return user, nil
}

// Login checks the credentials and signs a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errs.NewBadRequestError("Username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "User", err)
	}
	if !auth.ComparePassword(user.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, errs.NewUnauthorizedError("Invalid credentials")
	}

	token, expires, err := s.issuer.Sign(user.ID.String(), user.Username, user.Role)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}

// Authenticate resolves a raw token into its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, errs.NewUnauthorizedError("No token provided")
	}
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}

// Me returns the account behind a token.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Invalid token")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "User", err)
	}
	return user, nil
}

// TokenTTL is the lifetime used for the session cookie.
func (s *AuthService) TokenTTL() time.Duration {
	return s.issuer.TTL()
}
