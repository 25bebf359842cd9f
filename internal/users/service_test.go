package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/shared"
)

type memRepo struct {
	users   map[uuid.UUID]User
	byEmail map[string]uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[uuid.UUID]User{}, byEmail: map[string]uuid.UUID{}}
}

func (m *memRepo) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		if tenantID == nil || (u.TenantID != nil && *u.TenantID == *tenantID) {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return User{}, shared.ErrNotFound
}

func (m *memRepo) Create(ctx context.Context, user User) (User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return User{}, shared.ErrDuplicate
	}
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return user, nil
}

func (m *memRepo) Update(ctx context.Context, id uuid.UUID, user User) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	user.ID = id
	m.users[id] = user
	return nil
}

func (m *memRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Status = status
	m.users[id] = u
	return nil
}

func superAdmin() *shared.Principal {
	return &shared.Principal{UserID: uuid.New(), Role: shared.RoleSuperAdmin}
}

func tenantAdmin(tenantID uuid.UUID) *shared.Principal {
	return &shared.Principal{UserID: uuid.New(), Role: shared.RoleAdmin, TenantID: &tenantID}
}

func TestCreateHashesPasswordAndLowercasesEmail(t *testing.T) {
	svc := NewService(newMemRepo(), nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), superAdmin(), CreateForm{
		Email:    "  Admin@School.EDU ",
		Password: "swordfish1",
		FullName: "Pat Admin",
		Role:     shared.RoleAdmin,
		TenantID: tenantID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@school.edu", created.Email)
	assert.Equal(t, StatusActive, created.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("swordfish1")))
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), superAdmin(), CreateForm{
		Email:    "x@school.edu",
		Password: "swordfish1",
		FullName: "X",
		Role:     "principal",
		TenantID: uuid.New().String(),
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestTenantAdminCannotMintSuperAdmin(t *testing.T) {
	svc := NewService(newMemRepo(), nil)
	tenantID := uuid.New()

	_, err := svc.Create(context.Background(), tenantAdmin(tenantID), CreateForm{
		Email:    "root@school.edu",
		Password: "swordfish1",
		FullName: "Root",
		Role:     shared.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestTenantAdminCannotCreateOutsideOwnTenant(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), tenantAdmin(uuid.New()), CreateForm{
		Email:    "t@school.edu",
		Password: "swordfish1",
		FullName: "T",
		Role:     shared.RoleTeacher,
		TenantID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSuperAdminAccountHasNoTenant(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	created, err := svc.Create(context.Background(), superAdmin(), CreateForm{
		Email:    "root@attendly.io",
		Password: "swordfish1",
		FullName: "Root",
		Role:     shared.RoleSuperAdmin,
		TenantID: uuid.New().String(),
	})
	require.NoError(t, err)
	assert.Nil(t, created.TenantID)
}

func TestGetHidesCrossTenantAccounts(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), superAdmin(), CreateForm{
		Email:    "v@school.edu",
		Password: "swordfish1",
		FullName: "V",
		Role:     shared.RoleViewer,
		TenantID: tenantID.String(),
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), tenantAdmin(uuid.New()), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.Get(context.Background(), tenantAdmin(tenantID), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestDeactivateFlipsStatus(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil)
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), superAdmin(), CreateForm{
		Email:    "d@school.edu",
		Password: "swordfish1",
		FullName: "D",
		Role:     shared.RoleTeacher,
		TenantID: tenantID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), superAdmin(), created.ID))
	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
}
