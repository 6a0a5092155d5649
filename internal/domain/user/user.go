package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

// Role is the authorization role of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// User is the aggregate root for accounts.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	phone        string
	passwordHash string
	role         Role
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates an active USER account. passwordHash must already be hashed.
func NewUser(name, email, phone, passwordHash string) (*User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, domain.NewValidationError("Name must be at least 2 characters")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		phone:        phone,
		passwordHash: passwordHash,
		role:         RoleUser,
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, phone, passwordHash string,
	role Role,
	status Status,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Phone() string        { return u.phone }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) Status() Status       { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool { return u.status == StatusActive }

// IsAdmin reports whether the account has the ADMIN role.
func (u *User) IsAdmin() bool { return u.role == RoleAdmin }

// UpdateProfile changes name and/or phone. A nil phone leaves it untouched.
func (u *User) UpdateProfile(name string, phone *string) error {
	if name != "" {
		if len(strings.TrimSpace(name)) < 2 {
			return domain.NewValidationError("Name must be at least 2 characters")
		}
		u.name = strings.TrimSpace(name)
	}
	if phone != nil {
		u.phone = *phone
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

// ChangePasswordHash replaces the stored hash.
func (u *User) ChangePasswordHash(hash string) {
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
}

// Promote grants the ADMIN role.
func (u *User) Promote() {
	u.role = RoleAdmin
	u.updatedAt = time.Now().UTC()
}

// NormalizeEmail lowercases and validates an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.NewValidationError(fmt.Sprintf("Invalid email address: %s", email))
	}
	return email, nil
}

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
