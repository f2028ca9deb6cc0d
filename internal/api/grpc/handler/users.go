package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
)

// UserService defines admin management of principals.
type UserService interface {
	Create(ctx context.Context, actor model.User, params service.CreateUserParams) (model.Profile, error)
	List(ctx context.Context, actor model.User) ([]model.Profile, error)
	Delete(ctx context.Context, actor model.User, id uuid.UUID) error
	ResetPassword(ctx context.Context, actor model.User, id uuid.UUID, newPassword string) (service.PasswordReset, error)
	GeneratePassword(ctx context.Context, actor model.User, id uuid.UUID) (service.PasswordReset, error)
	SetRole(ctx context.Context, actor model.User, id uuid.UUID, role model.Role) error
	SetActive(ctx context.Context, actor model.User, id uuid.UUID, active bool) error
}

// Users handles gRPC endpoints for user administration.
type Users struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ UsersServer = (*Users)(nil)

// NewUsers creates a new Users handler.
func NewUsers(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *Users {
	return &Users{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, handleError(fmt.Errorf("invalid user id %q: %w", raw, model.ErrValidation))
	}
	return id, nil
}

// target resolves the caller and the user id a request operates on.
func (h *Users) target(ctx context.Context, rawID string) (model.User, uuid.UUID, error) {
	actor, err := principal(ctx, h.contextManager)
	if err != nil {
		return model.User{}, uuid.Nil, err
	}
	id, err := parseUserID(rawID)
	if err != nil {
		return model.User{}, uuid.Nil, err
	}
	return actor, id, nil
}

func (h *Users) Create(ctx context.Context, req *CreateUserRequest) (*UserMessage, error) {
	actor, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	profile, err := h.userService.Create(ctx, actor, service.CreateUserParams{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		WhatsApp:     req.WhatsApp,
		Branch:       req.Branch,
		PersonalCode: req.PersonalCode,
		Role:         model.Role(req.Role),
	})
	if err != nil {
		h.logger.Error("Users handler: create failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Users handler: user created",
		"user_id", profile.ID,
		"role", profile.Role)

	msg := toUserMessage(profile)
	return &msg, nil
}

func (h *Users) List(ctx context.Context, _ *Empty) (*UserListResponse, error) {
	actor, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	profiles, err := h.userService.List(ctx, actor)
	if err != nil {
		h.logger.Error("Users handler: list failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	out := make([]UserMessage, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUserMessage(p))
	}
	return &UserListResponse{Users: out}, nil
}

func (h *Users) Delete(ctx context.Context, req *UserIDRequest) (*StatusResponse, error) {
	actor, id, err := h.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := h.userService.Delete(ctx, actor, id); err != nil {
		h.logger.Error("Users handler: delete failed",
			"user_id", id,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &StatusResponse{Success: true, Message: "user deleted"}, nil
}

func (h *Users) ResetPassword(ctx context.Context, req *ResetPasswordRequest) (*PasswordResponse, error) {
	actor, id, err := h.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	reset, err := h.userService.ResetPassword(ctx, actor, id, req.NewPassword)
	if err != nil {
		h.logger.Error("Users handler: password reset failed",
			"user_id", id,
			"error", err.Error())
		return nil, handleError(err)
	}

	return toPasswordResponse(reset), nil
}

func (h *Users) GeneratePassword(ctx context.Context, req *UserIDRequest) (*PasswordResponse, error) {
	actor, id, err := h.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	reset, err := h.userService.GeneratePassword(ctx, actor, id)
	if err != nil {
		h.logger.Error("Users handler: password generation failed",
			"user_id", id,
			"error", err.Error())
		return nil, handleError(err)
	}

	return toPasswordResponse(reset), nil
}

func (h *Users) SetRole(ctx context.Context, req *SetRoleRequest) (*StatusResponse, error) {
	actor, id, err := h.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := h.userService.SetRole(ctx, actor, id, model.Role(req.Role)); err != nil {
		h.logger.Error("Users handler: role change failed",
			"user_id", id,
			"role", req.Role,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &StatusResponse{Success: true, Message: "role updated"}, nil
}

func (h *Users) SetActive(ctx context.Context, req *SetActiveRequest) (*StatusResponse, error) {
	actor, id, err := h.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := h.userService.SetActive(ctx, actor, id, req.Active); err != nil {
		h.logger.Error("Users handler: activation change failed",
			"user_id", id,
			"active", req.Active,
			"error", err.Error())
		return nil, handleError(err)
	}

	msg := "user deactivated"
	if req.Active {
		msg = "user activated"
	}
	return &StatusResponse{Success: true, Message: msg}, nil
}

func toPasswordResponse(r service.PasswordReset) *PasswordResponse {
	return &PasswordResponse{
		Success:     true,
		UserEmail:   r.Email,
		UserName:    r.Name,
		NewPassword: r.Password,
	}
}
