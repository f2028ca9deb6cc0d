package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/password"
)

// GeneratedPasswordLength is the length of admin-generated passwords.
const GeneratedPasswordLength = 8

// CreateUserParams is an admin request to add a principal of any role.
type CreateUserParams struct {
	Email        string     `validate:"required,email"`
	Password     string     `validate:"required,min=6,max=72"`
	Name         string     `validate:"required"`
	WhatsApp     string     `validate:"required"`
	Branch       string     `validate:"required"`
	PersonalCode string     `validate:"omitempty,max=32,alphanum"`
	Role         model.Role `validate:"omitempty,oneof=admin client"`
}

// PasswordReset reports a password set by an admin on behalf of a user.
type PasswordReset struct {
	Email    string
	Name     string
	Password string
}

// Users implements admin management of principals.
type Users struct {
	userStore model.UserStore
	audit     *auditor
	validate  *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

func NewUsers(userStore model.UserStore, auditStore model.AuditStore, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		audit:     newAuditor(auditStore, logger),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Users) Create(ctx context.Context, actor model.User, params CreateUserParams) (model.Profile, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return model.Profile{}, err
	}
	if params.Role == "" {
		params.Role = model.RoleClient
	}
	if err := s.validate.Struct(params); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	hash, err := password.Hash(params.Password)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.Create(ctx, model.User{
		Email:        params.Email,
		Name:         params.Name,
		Branch:       params.Branch,
		WhatsApp:     params.WhatsApp,
		PersonalCode: params.PersonalCode,
		PasswordHash: hash,
		Role:         params.Role,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Users service: failed to create user",
			"actor", actor.Email,
			"email", params.Email,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.record(ctx, model.AuditCreateUser, actor.Email, model.AuditTargetUser, user.ID.String(),
		fmt.Sprintf("created user %s with role %s", user.Email, user.Role))

	s.logger.Info("Users service: user created",
		"actor", actor.Email,
		"email", user.Email,
		"role", string(user.Role),
		"personal_code", user.PersonalCode)

	return user.Profile(), nil
}

func (s *Users) List(ctx context.Context, actor model.User) ([]model.Profile, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return nil, err
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("Users service: failed to list users",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]model.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Delete removes a principal. Tracks carrying the user's personal code stay.
func (s *Users) Delete(ctx context.Context, actor model.User, id uuid.UUID) error {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("cannot delete own account: %w", model.ErrValidation)
	}

	if err := s.userStore.Delete(ctx, id); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Users service: failed to delete user",
				"user_id", id.String(),
				"error", err.Error())
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.record(ctx, model.AuditDeleteUser, actor.Email, model.AuditTargetUser, id.String(), "")

	s.logger.Info("Users service: user deleted",
		"actor", actor.Email,
		"user_id", id.String())

	return nil
}

func (s *Users) ResetPassword(ctx context.Context, actor model.User, id uuid.UUID, newPassword string) (PasswordReset, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return PasswordReset{}, err
	}
	if len(newPassword) < MinPasswordLength {
		return PasswordReset{}, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, model.ErrValidation)
	}
	return s.setPassword(ctx, actor, id, newPassword, model.AuditResetPassword)
}

// GeneratePassword sets a random password and returns it once.
func (s *Users) GeneratePassword(ctx context.Context, actor model.User, id uuid.UUID) (PasswordReset, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return PasswordReset{}, err
	}

	plain, err := password.Generate(GeneratedPasswordLength)
	if err != nil {
		return PasswordReset{}, err
	}
	return s.setPassword(ctx, actor, id, plain, model.AuditGeneratePassword)
}

func (s *Users) setPassword(ctx context.Context, actor model.User, id uuid.UUID, plain string, action model.AuditAction) (PasswordReset, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return PasswordReset{}, fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return PasswordReset{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userStore.UpdatePassword(ctx, id, hash); err != nil {
		s.logger.Error("Users service: failed to update password",
			"user_id", id.String(),
			"error", err.Error())
		return PasswordReset{}, fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.record(ctx, action, actor.Email, model.AuditTargetUser, id.String(),
		"password set for user "+user.Email)

	s.logger.Info("Users service: password set by admin",
		"actor", actor.Email,
		"email", user.Email,
		"action", string(action))

	return PasswordReset{Email: user.Email, Name: user.Name, Password: plain}, nil
}

func (s *Users) SetRole(ctx context.Context, actor model.User, id uuid.UUID, role model.Role) error {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q: %w", role, model.ErrValidation)
	}

	if err := s.userStore.UpdateRole(ctx, id, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.audit.record(ctx, model.AuditSetRole, actor.Email, model.AuditTargetUser, id.String(), "role="+string(role))

	s.logger.Info("Users service: role changed",
		"actor", actor.Email,
		"user_id", id.String(),
		"role", string(role))

	return nil
}

// SetActive enables or disables a principal. Disabled principals fail
// authentication on their next request even with an unexpired token.
func (s *Users) SetActive(ctx context.Context, actor model.User, id uuid.UUID, active bool) error {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return err
	}
	if id == actor.ID && !active {
		return fmt.Errorf("cannot deactivate own account: %w", model.ErrValidation)
	}

	if err := s.userStore.UpdateActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}

	s.audit.record(ctx, model.AuditSetActive, actor.Email, model.AuditTargetUser, id.String(),
		"active="+strconv.FormatBool(active))

	s.logger.Info("Users service: active flag changed",
		"actor", actor.Email,
		"user_id", id.String(),
		"active", active)

	return nil
}
