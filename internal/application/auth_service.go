package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

const invalidCredentials = "Invalid email or password"

// RegisterRequest holds sign-up data.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

// LoginRequest holds sign-in data.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=2"`
	Phone *string `json:"phone"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthResult is returned on register and login.
type AuthResult struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

// AuthService handles accounts and tokens.
type AuthService struct {
	users  userDomain.UserRepository
	jwt    *auth.JWTManager
	hasher *auth.PasswordHasher
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userDomain.UserRepository, jwt *auth.JWTManager, hasher *auth.PasswordHasher, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, hasher: hasher, logger: logger}
}

// Register creates a USER account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email, err := userDomain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError("Email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := userDomain.NewUser(req.Name, email, req.Phone, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.issue(u)
}

// Login verifies credentials. Unknown emails and wrong passwords share one message.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email, err := userDomain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, domain.NewUnauthorizedError(invalidCredentials)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, domain.NewForbiddenError("Account is not active")
	}

	ok, err := s.hasher.Verify(u.PasswordHash(), req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, domain.NewUnauthorizedError(invalidCredentials)
	}
	return s.issue(u)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.NewValidationError("Refresh token required")
	}
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", domain.NewUnauthorizedError("Invalid or expired refresh token")
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil && !domain.IsNotFound(err) {
		return "", err
	}
	if u == nil || !u.IsActive() {
		return "", domain.NewUnauthorizedError("User not found or inactive")
	}

	return s.jwt.GenerateAccessToken(u.ID(), u.Email(), string(u.Role()))
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// UpdateProfile changes the caller's name and/or phone.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(u.PasswordHash(), req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return domain.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.ChangePasswordHash(hash)
	return s.users.Update(ctx, u)
}

func (s *AuthService) issue(u *userDomain.User) (*AuthResult, error) {
	pair, err := s.jwt.GeneratePair(u.ID(), u.Email(), string(u.Role()))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         toUserDTO(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
