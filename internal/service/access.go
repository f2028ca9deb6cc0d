package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
)

// Access resolves bearer tokens to live principals.
type Access struct {
	userStore model.UserStore
	tokens    model.TokenManager
	logger    *logger.Logger
}

func NewAccess(userStore model.UserStore, tokens model.TokenManager, logger *logger.Logger) *Access {
	return &Access{
		userStore: userStore,
		tokens:    tokens,
		logger:    logger,
	}
}

// Authenticate decodes token and re-reads its subject from the store. The
// role and active flag of the returned user are the stored ones, never the
// claim copies.
func (a *Access) Authenticate(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, fmt.Errorf("missing token: %w", model.ErrUnauthenticated)
	}

	claims, err := a.tokens.Decode(token)
	if err != nil {
		a.logger.Debug("Access service: token rejected",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	user, err := a.userStore.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Access service: token subject no longer exists",
				"email", claims.Email)
			return model.User{}, fmt.Errorf("unknown subject: %w", model.ErrUnauthenticated)
		}
		a.logger.Error("Access service: failed to resolve token subject",
			"email", claims.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.Active {
		a.logger.Info("Access service: token subject is inactive",
			"email", claims.Email)
		return model.User{}, fmt.Errorf("inactive account: %w", model.ErrUnauthenticated)
	}

	return user, nil
}

// Authorize checks the user's current role against roles.
func Authorize(user model.User, roles model.RoleSet) error {
	if !roles.Contains(user.Role) {
		return fmt.Errorf("role %q not allowed: %w", user.Role, model.ErrForbidden)
	}
	return nil
}

// CheckOwnership allows admins everywhere and clients only on their own code.
func CheckOwnership(user model.User, personalCode string) error {
	if user.Role == model.RoleAdmin {
		return nil
	}
	if personalCode == "" || user.PersonalCode != personalCode {
		return fmt.Errorf("personal code %q does not belong to user: %w", personalCode, model.ErrForbidden)
	}
	return nil
}
