package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	grpccontext "github.com/dtroode/deltacargo-server/internal/api/grpc/context"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
)

var (
	testAdmin = model.User{
		ID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Email:        "admin@deltacargo.com",
		Name:         "Admin",
		PersonalCode: "ADMIN001",
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	testClient = model.User{
		ID:           uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Email:        "client@test.com",
		Name:         "Client",
		PersonalCode: "1001",
		Role:         model.RoleClient,
		Active:       true,
		CreatedAt:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
)

var contextManager = grpccontext.NewManager()

func as(user model.User) context.Context {
	return contextManager.SetPrincipalToContext(context.Background(), user)
}

type authServiceMock struct{ mock.Mock }

func (m *authServiceMock) Register(ctx context.Context, params service.RegisterParams) (model.Profile, error) {
	ret := m.Called(ctx, params)
	return ret.Get(0).(model.Profile), ret.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (service.Session, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(service.Session), ret.Error(1)
}

func (m *authServiceMock) ChangePassword(ctx context.Context, actor model.User, oldPassword, newPassword string) error {
	return m.Called(ctx, actor, oldPassword, newPassword).Error(0)
}

type trackServiceMock struct{ mock.Mock }

func (m *trackServiceMock) Search(ctx context.Context, number string) (service.TrackView, error) {
	ret := m.Called(ctx, number)
	return ret.Get(0).(service.TrackView), ret.Error(1)
}

func (m *trackServiceMock) Claim(ctx context.Context, actor model.User, number, personalCode string) (service.TrackView, error) {
	ret := m.Called(ctx, actor, number, personalCode)
	return ret.Get(0).(service.TrackView), ret.Error(1)
}

func (m *trackServiceMock) ListOwned(ctx context.Context, actor model.User, personalCode string, archived bool) ([]service.TrackView, error) {
	ret := m.Called(ctx, actor, personalCode, archived)
	views, _ := ret.Get(0).([]service.TrackView)
	return views, ret.Error(1)
}

func (m *trackServiceMock) Archive(ctx context.Context, actor model.User, number string) error {
	return m.Called(ctx, actor, number).Error(0)
}

func (m *trackServiceMock) Unarchive(ctx context.Context, actor model.User, number string) error {
	return m.Called(ctx, actor, number).Error(0)
}

func (m *trackServiceMock) UpsertAdminRecord(ctx context.Context, actor model.User, number, status string, departure time.Time) (model.Track, error) {
	ret := m.Called(ctx, actor, number, status, departure)
	return ret.Get(0).(model.Track), ret.Error(1)
}

func (m *trackServiceMock) UpdateStatus(ctx context.Context, actor model.User, number, status string) (service.StatusChange, error) {
	ret := m.Called(ctx, actor, number, status)
	return ret.Get(0).(service.StatusChange), ret.Error(1)
}

func (m *trackServiceMock) Delete(ctx context.Context, actor model.User, number string) error {
	return m.Called(ctx, actor, number).Error(0)
}

func (m *trackServiceMock) BatchUpdateStatus(ctx context.Context, actor model.User, date, status string) (service.BatchResult, error) {
	ret := m.Called(ctx, actor, date, status)
	return ret.Get(0).(service.BatchResult), ret.Error(1)
}

func (m *trackServiceMock) BulkUpload(ctx context.Context, actor model.User, params service.UploadParams) (service.UploadReport, error) {
	ret := m.Called(ctx, actor, params)
	return ret.Get(0).(service.UploadReport), ret.Error(1)
}

func (m *trackServiceMock) DownloadManifest(ctx context.Context, actor model.User, key string) (service.Manifest, error) {
	ret := m.Called(ctx, actor, key)
	return ret.Get(0).(service.Manifest), ret.Error(1)
}

func (m *trackServiceMock) Calendar(ctx context.Context, actor model.User) ([]service.CalendarDay, error) {
	ret := m.Called(ctx, actor)
	days, _ := ret.Get(0).([]service.CalendarDay)
	return days, ret.Error(1)
}

func (m *trackServiceMock) ScanValidate(ctx context.Context, actor model.User, raw string) (service.ScanReport, error) {
	ret := m.Called(ctx, actor, raw)
	return ret.Get(0).(service.ScanReport), ret.Error(1)
}

func (m *trackServiceMock) ScanDeliver(ctx context.Context, actor model.User, raw string) (service.ScanOutcome, error) {
	ret := m.Called(ctx, actor, raw)
	return ret.Get(0).(service.ScanOutcome), ret.Error(1)
}

func (m *trackServiceMock) ScanDelete(ctx context.Context, actor model.User, raw string) (service.ScanOutcome, error) {
	ret := m.Called(ctx, actor, raw)
	return ret.Get(0).(service.ScanOutcome), ret.Error(1)
}

type userServiceMock struct{ mock.Mock }

func (m *userServiceMock) Create(ctx context.Context, actor model.User, params service.CreateUserParams) (model.Profile, error) {
	ret := m.Called(ctx, actor, params)
	return ret.Get(0).(model.Profile), ret.Error(1)
}

func (m *userServiceMock) List(ctx context.Context, actor model.User) ([]model.Profile, error) {
	ret := m.Called(ctx, actor)
	profiles, _ := ret.Get(0).([]model.Profile)
	return profiles, ret.Error(1)
}

func (m *userServiceMock) Delete(ctx context.Context, actor model.User, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *userServiceMock) ResetPassword(ctx context.Context, actor model.User, id uuid.UUID, newPassword string) (service.PasswordReset, error) {
	ret := m.Called(ctx, actor, id, newPassword)
	return ret.Get(0).(service.PasswordReset), ret.Error(1)
}

func (m *userServiceMock) GeneratePassword(ctx context.Context, actor model.User, id uuid.UUID) (service.PasswordReset, error) {
	ret := m.Called(ctx, actor, id)
	return ret.Get(0).(service.PasswordReset), ret.Error(1)
}

func (m *userServiceMock) SetRole(ctx context.Context, actor model.User, id uuid.UUID, role model.Role) error {
	return m.Called(ctx, actor, id, role).Error(0)
}

func (m *userServiceMock) SetActive(ctx context.Context, actor model.User, id uuid.UUID, active bool) error {
	return m.Called(ctx, actor, id, active).Error(0)
}
