package handler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/deltacargo-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "invalid credentials hides which part was wrong",
			in:       model.ErrInvalidCredentials,
			wantCode: codes.Unauthenticated,
			wantMsg:  "incorrect email or password",
		},
		{
			name:     "unauthenticated",
			in:       fmt.Errorf("token expired: %w", model.ErrUnauthenticated),
			wantCode: codes.Unauthenticated,
			wantMsg:  "could not validate credentials",
		},
		{
			name:     "forbidden keeps message",
			in:       fmt.Errorf("%w: admin role required", model.ErrForbidden),
			wantCode: codes.PermissionDenied,
			wantMsg:  "forbidden: admin role required",
		},
		{
			name:     "wrapped not found",
			in:       fmt.Errorf("track KZ1: %w", model.ErrNotFound),
			wantCode: codes.NotFound,
			wantMsg:  "track KZ1: not found",
		},
		{
			name:     "conflict",
			in:       model.ErrConflict,
			wantCode: codes.AlreadyExists,
			wantMsg:  "conflict",
		},
		{
			name:     "validation",
			in:       fmt.Errorf("bad date: %w", model.ErrValidation),
			wantCode: codes.InvalidArgument,
			wantMsg:  "bad date: validation failed",
		},
		{
			name:     "deadline",
			in:       context.DeadlineExceeded,
			wantCode: codes.DeadlineExceeded,
			wantMsg:  "deadline exceeded",
		},
		{
			name:     "storage error is opaque",
			in:       fmt.Errorf("%w: connection refused", model.ErrStorage),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
		{
			name:     "status passthrough",
			in:       status.Error(codes.Unavailable, "down"),
			wantCode: codes.Unavailable,
			wantMsg:  "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st, ok := status.FromError(handleError(tt.in))
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
