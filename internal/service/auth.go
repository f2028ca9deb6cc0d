package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/password"
)

// MinPasswordLength applies to every password a principal chooses.
const MinPasswordLength = 6

// RegisterParams is a self-registration request. PersonalCode is optional.
type RegisterParams struct {
	Email        string `validate:"required,email"`
	Password     string `validate:"required,min=6,max=72"`
	Name         string `validate:"required"`
	WhatsApp     string `validate:"required"`
	Branch       string `validate:"required"`
	PersonalCode string `validate:"omitempty,max=32,alphanum"`
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  model.Profile
}

type Auth struct {
	userStore model.UserStore
	tokens    model.TokenManager
	audit     *auditor
	validate  *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	auditStore model.AuditStore,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		tokens:    tokens,
		audit:     newAuditor(auditStore, logger),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a client principal. The role is always client.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (model.Profile, error) {
	a.logger.Debug("Auth service: registering user",
		"email", params.Email)

	if err := a.validate.Struct(params); err != nil {
		a.logger.Info("Auth service: registration rejected",
			"email", params.Email,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	hash, err := password.Hash(params.Password)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		Email:        params.Email,
		Name:         params.Name,
		Branch:       params.Branch,
		WhatsApp:     params.WhatsApp,
		PersonalCode: params.PersonalCode,
		PasswordHash: hash,
		Role:         model.RoleClient,
		Active:       true,
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			a.logger.Info("Auth service: email, whatsapp or personal code already taken",
				"email", params.Email)
			return model.Profile{}, fmt.Errorf("email, whatsapp or personal code already registered: %w", model.ErrConflict)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.audit.record(ctx, model.AuditRegisterUser, user.Email, model.AuditTargetUser, user.ID.String(),
		"personal_code="+user.PersonalCode)

	a.logger.Info("Auth service: user registered",
		"email", user.Email,
		"personal_code", user.PersonalCode)

	return user.Profile(), nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, plain string) (Session, error) {
	a.logger.Debug("Auth service: login attempt",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown email",
				"email", email)
			return Session{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !password.Verify(plain, user.PasswordHash) {
		a.logger.Info("Auth service: wrong password",
			"email", email)
		return Session{}, model.ErrInvalidCredentials
	}

	if !user.Active {
		a.logger.Info("Auth service: login by inactive user",
			"email", email)
		return Session{}, fmt.Errorf("account is deactivated: %w", model.ErrForbidden)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"email", email,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	now := a.now().UTC()
	if err := a.userStore.UpdateLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Warn("Auth service: failed to update last login",
			"email", email,
			"error", err.Error())
	} else {
		user.LastLogin = &now
	}

	a.logger.Info("Auth service: user logged in",
		"email", email,
		"role", string(user.Role))

	return Session{Token: token, User: user.Profile()}, nil
}

// ChangePassword replaces the actor's password after verifying the old one.
func (a *Auth) ChangePassword(ctx context.Context, actor model.User, oldPassword, newPassword string) error {
	if !password.Verify(oldPassword, actor.PasswordHash) {
		a.logger.Info("Auth service: change password with wrong current password",
			"email", actor.Email)
		return fmt.Errorf("current password is incorrect: %w", model.ErrInvalidCredentials)
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("new password must be at least %d characters: %w", MinPasswordLength, model.ErrValidation)
	}
	if newPassword == oldPassword {
		return fmt.Errorf("new password must differ from the current one: %w", model.ErrValidation)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, actor.ID, hash); err != nil {
		a.logger.Error("Auth service: failed to update password",
			"email", actor.Email,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.audit.record(ctx, model.AuditChangePassword, actor.Email, model.AuditTargetUser, actor.ID.String(), "")

	a.logger.Info("Auth service: password changed",
		"email", actor.Email)

	return nil
}
