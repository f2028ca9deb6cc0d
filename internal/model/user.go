package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a principal's access level.
type Role string

const (
	// RoleAdmin manages users and track records.
	RoleAdmin Role = "admin"
	// RoleClient claims and follows their own tracks.
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// RoleSet is a set of roles allowed to perform an operation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

var (
	AdminOnly  = NewRoleSet(RoleAdmin)
	ClientOnly = NewRoleSet(RoleClient)
	AnyRole    = NewRoleSet(RoleAdmin, RoleClient)
)

// UserStore defines persistence operations for principals.
type UserStore interface {
	// Create stores user, allocating the next sequential personal code when
	// PersonalCode is empty. Duplicate email, code or whatsapp yields ErrConflict.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByPersonalCode(ctx context.Context, code string) (User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	UpdateActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// User is a stored principal with its authentication material.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Branch       string
	WhatsApp     string
	PersonalCode string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Profile is the outbound view of a principal.
type Profile struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Branch       string
	WhatsApp     string
	PersonalCode string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Profile returns the user without its password hash.
func (u User) Profile() Profile {
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Branch:       u.Branch,
		WhatsApp:     u.WhatsApp,
		PersonalCode: u.PersonalCode,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}
