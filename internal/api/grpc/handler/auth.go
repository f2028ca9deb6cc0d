package handler

import (
	"context"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
)

// AuthService defines registration, login and password operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.Profile, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	ChangePassword(ctx context.Context, actor model.User, oldPassword, newPassword string) error
}

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ AuthServer = (*Auth)(nil)

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates a client account.
func (h *Auth) Register(ctx context.Context, req *RegisterRequest) (*UserMessage, error) {
	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	profile, err := h.authService.Register(ctx, service.RegisterParams{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		WhatsApp:     req.WhatsApp,
		Branch:       req.Branch,
		PersonalCode: req.PersonalCode,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: registration completed",
		"email", req.Email,
		"personal_code", profile.PersonalCode)

	msg := toUserMessage(profile)
	return &msg, nil
}

// Login verifies credentials and returns a bearer token.
func (h *Auth) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed",
		"email", req.Email)

	return &LoginResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		User:        toUserMessage(session.User),
	}, nil
}

// Me returns the caller's profile.
func (h *Auth) Me(ctx context.Context, _ *Empty) (*UserMessage, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	msg := toUserMessage(user.Profile())
	return &msg, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (h *Auth) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*StatusResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Auth handler: processing password change request",
		"user_id", user.ID)

	if err := h.authService.ChangePassword(ctx, user, req.OldPassword, req.NewPassword); err != nil {
		h.logger.Error("Auth handler: password change failed",
			"user_id", user.ID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: password change completed",
		"user_id", user.ID)

	return &StatusResponse{Success: true, Message: "password changed"}, nil
}
