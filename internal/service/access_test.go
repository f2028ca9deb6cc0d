package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/deltacargo-server/internal/mocks"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/testutil"
)

func TestAccess_Authenticate(t *testing.T) {
	ctx := context.Background()
	live := model.User{Email: "client@test.com", Role: model.RoleAdmin, PersonalCode: "106", Active: true}

	tests := []struct {
		name    string
		token   string
		setup   func(tokens *mocks.TokenManager, users *mocks.UserStore)
		wantErr error
		check   func(t *testing.T, user model.User)
	}{
		{
			name:    "empty token",
			token:   "",
			setup:   func(*mocks.TokenManager, *mocks.UserStore) {},
			wantErr: model.ErrUnauthenticated,
		},
		{
			name:  "expired token",
			token: "expired",
			setup: func(tokens *mocks.TokenManager, _ *mocks.UserStore) {
				tokens.On("Decode", "expired").Return(model.Claims{}, model.ErrTokenExpired)
			},
			wantErr: model.ErrTokenExpired,
		},
		{
			name:  "deleted subject",
			token: "valid",
			setup: func(tokens *mocks.TokenManager, users *mocks.UserStore) {
				tokens.On("Decode", "valid").Return(model.Claims{Email: live.Email}, nil)
				users.On("GetByEmail", ctx, live.Email).Return(model.User{}, model.ErrNotFound)
			},
			wantErr: model.ErrUnauthenticated,
		},
		{
			name:  "inactive subject",
			token: "valid",
			setup: func(tokens *mocks.TokenManager, users *mocks.UserStore) {
				inactive := live
				inactive.Active = false
				tokens.On("Decode", "valid").Return(model.Claims{Email: live.Email}, nil)
				users.On("GetByEmail", ctx, live.Email).Return(inactive, nil)
			},
			wantErr: model.ErrUnauthenticated,
		},
		{
			name:  "store failure is not unauthenticated",
			token: "valid",
			setup: func(tokens *mocks.TokenManager, users *mocks.UserStore) {
				tokens.On("Decode", "valid").Return(model.Claims{Email: live.Email}, nil)
				users.On("GetByEmail", ctx, live.Email).Return(model.User{}, model.ErrStorage)
			},
			wantErr: model.ErrStorage,
		},
		{
			name:  "live role wins over claim",
			token: "valid",
			setup: func(tokens *mocks.TokenManager, users *mocks.UserStore) {
				tokens.On("Decode", "valid").Return(model.Claims{Email: live.Email, Role: model.RoleClient}, nil)
				users.On("GetByEmail", ctx, live.Email).Return(live, nil)
			},
			check: func(t *testing.T, user model.User) {
				assert.Equal(t, model.RoleAdmin, user.Role)
				assert.Equal(t, "106", user.PersonalCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewTokenManager(t)
			users := mocks.NewUserStore(t)
			tt.setup(tokens, users)

			access := NewAccess(users, tokens, testutil.MakeNoopLogger())
			user, err := access.Authenticate(ctx, tt.token)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, user)
		})
	}
}

func TestAccess_StorageFailureIsNotUnauthenticated(t *testing.T) {
	tokens := mocks.NewTokenManager(t)
	users := mocks.NewUserStore(t)
	tokens.On("Decode", "valid").Return(model.Claims{Email: "a@b.c"}, nil)
	users.On("GetByEmail", context.Background(), "a@b.c").Return(model.User{}, model.ErrStorage)

	_, err := NewAccess(users, tokens, testutil.MakeNoopLogger()).Authenticate(context.Background(), "valid")

	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrUnauthenticated))
}

func TestAuthorize(t *testing.T) {
	admin := model.User{Role: model.RoleAdmin}
	client := model.User{Role: model.RoleClient}

	assert.NoError(t, Authorize(admin, model.AdminOnly))
	assert.NoError(t, Authorize(admin, model.AnyRole))
	assert.ErrorIs(t, Authorize(admin, model.ClientOnly), model.ErrForbidden)

	assert.NoError(t, Authorize(client, model.ClientOnly))
	assert.NoError(t, Authorize(client, model.AnyRole))
	assert.ErrorIs(t, Authorize(client, model.AdminOnly), model.ErrForbidden)

	assert.ErrorIs(t, Authorize(model.User{Role: "guest"}, model.AnyRole), model.ErrForbidden)
}

func TestCheckOwnership(t *testing.T) {
	admin := model.User{Role: model.RoleAdmin, PersonalCode: "ADMIN001"}
	client := model.User{Role: model.RoleClient, PersonalCode: "106"}

	assert.NoError(t, CheckOwnership(admin, "999"))
	assert.NoError(t, CheckOwnership(admin, ""))
	assert.NoError(t, CheckOwnership(client, "106"))
	assert.ErrorIs(t, CheckOwnership(client, "107"), model.ErrForbidden)
	assert.ErrorIs(t, CheckOwnership(client, ""), model.ErrForbidden)
}
