package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
	"github.com/dtroode/deltacargo-server/internal/testutil"
)

func newUsersHandler(svc *userServiceMock) *Users {
	return NewUsers(svc, contextManager, testutil.MakeNoopLogger())
}

func TestUsers_Create(t *testing.T) {
	t.Parallel()

	svc := &userServiceMock{}
	svc.On("Create", mock.Anything, testAdmin, service.CreateUserParams{
		Email:    "op@deltacargo.com",
		Password: "secret1",
		Name:     "Operator",
		WhatsApp: "+77001112233",
		Branch:   "HQ",
		Role:     model.RoleAdmin,
	}).Return(model.Profile{ID: uuid.New(), Email: "op@deltacargo.com", Role: model.RoleAdmin, Active: true}, nil)

	out, err := newUsersHandler(svc).Create(as(testAdmin), &CreateUserRequest{
		Email:    "op@deltacargo.com",
		Password: "secret1",
		Name:     "Operator",
		WhatsApp: "+77001112233",
		Branch:   "HQ",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.Role)
}

func TestUsers_List(t *testing.T) {
	t.Parallel()

	svc := &userServiceMock{}
	svc.On("List", mock.Anything, testAdmin).Return([]model.Profile{testAdmin.Profile(), testClient.Profile()}, nil)
	svc.On("List", mock.Anything, testClient).Return(nil, model.ErrForbidden)

	h := newUsersHandler(svc)

	out, err := h.List(as(testAdmin), &Empty{})
	require.NoError(t, err)
	assert.Len(t, out.Users, 2)

	_, err = h.List(as(testClient), &Empty{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestUsers_InvalidID(t *testing.T) {
	t.Parallel()

	h := newUsersHandler(&userServiceMock{})

	_, err := h.Delete(as(testAdmin), &UserIDRequest{UserID: "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = h.SetRole(as(testAdmin), &SetRoleRequest{UserID: "", Role: "admin"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUsers_Passwords(t *testing.T) {
	t.Parallel()

	svc := &userServiceMock{}
	svc.On("ResetPassword", mock.Anything, testAdmin, testClient.ID, "fresh1").
		Return(service.PasswordReset{Email: testClient.Email, Name: testClient.Name, Password: "fresh1"}, nil)
	svc.On("GeneratePassword", mock.Anything, testAdmin, testClient.ID).
		Return(service.PasswordReset{Email: testClient.Email, Name: testClient.Name, Password: "Ab3dEf7h"}, nil)

	h := newUsersHandler(svc)

	out, err := h.ResetPassword(as(testAdmin), &ResetPasswordRequest{UserID: testClient.ID.String(), NewPassword: "fresh1"})
	require.NoError(t, err)
	assert.Equal(t, "fresh1", out.NewPassword)
	assert.Equal(t, testClient.Email, out.UserEmail)

	out, err = h.GeneratePassword(as(testAdmin), &UserIDRequest{UserID: testClient.ID.String()})
	require.NoError(t, err)
	assert.Len(t, out.NewPassword, service.GeneratedPasswordLength)
}

func TestUsers_RoleAndActivation(t *testing.T) {
	t.Parallel()

	svc := &userServiceMock{}
	svc.On("SetRole", mock.Anything, testAdmin, testClient.ID, model.RoleAdmin).Return(nil)
	svc.On("SetActive", mock.Anything, testAdmin, testClient.ID, false).Return(nil)
	svc.On("SetActive", mock.Anything, testAdmin, testAdmin.ID, false).Return(model.ErrValidation)
	svc.On("Delete", mock.Anything, testAdmin, testClient.ID).Return(model.ErrNotFound)

	h := newUsersHandler(svc)

	out, err := h.SetRole(as(testAdmin), &SetRoleRequest{UserID: testClient.ID.String(), Role: "admin"})
	require.NoError(t, err)
	assert.True(t, out.Success)

	out, err = h.SetActive(as(testAdmin), &SetActiveRequest{UserID: testClient.ID.String(), Active: false})
	require.NoError(t, err)
	assert.Equal(t, "user deactivated", out.Message)

	_, err = h.SetActive(as(testAdmin), &SetActiveRequest{UserID: testAdmin.ID.String(), Active: false})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.Delete(as(testAdmin), &UserIDRequest{UserID: testClient.ID.String()})
	assert.Equal(t, codes.NotFound, status.Code(err))
	svc.AssertExpectations(t)
}
