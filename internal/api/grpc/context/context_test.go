package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/deltacargo-server/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	user := model.User{ID: uuid.New(), Email: "client@test.com", Role: model.RoleClient, PersonalCode: "106"}

	ctx := m.SetPrincipalToContext(stdctx.Background(), user)

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetPrincipalFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_MetadataCannotForgePrincipal(t *testing.T) {
	m := NewManager()
	md := metadata.Pairs("principal", "admin@deltacargo.com", "role", "admin")
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)

	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}
