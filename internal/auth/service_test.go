package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/shared"
)

type stubRepo struct {
	accountsByEmail map[string]*Account
	accountsByID    map[uuid.UUID]*Account
	tenants         map[uuid.UUID]*Tenant
	tenantErr       error
}

func (s *stubRepo) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	if a, ok := s.accountsByEmail[email]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	if a, ok := s.accountsByID[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	if s.tenantErr != nil {
		return nil, s.tenantErr
	}
	if t, ok := s.tenants[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func newFixture(t *testing.T) (*Service, *stubRepo, *Account, *Tenant) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	tenantID := uuid.New()
	tenant := &Tenant{ID: tenantID, Code: "ACME", Name: "Acme Academy", Status: StatusActive}
	account := &Account{
		ID:           uuid.New(),
		Email:        "admin@acme.test",
		PasswordHash: string(hash),
		FullName:     "Acme Admin",
		Role:         shared.RoleAdmin,
		TenantID:     &tenantID,
		Status:       StatusActive,
	}
	repo := &stubRepo{
		accountsByEmail: map[string]*Account{account.Email: account},
		accountsByID:    map[uuid.UUID]*Account{account.ID: account},
		tenants:         map[uuid.UUID]*Tenant{tenantID: tenant},
	}
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewService(repo, tokens), repo, account, tenant
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _, account, tenant := newFixture(t)

	token, principal, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, account.ID, principal.UserID)
	assert.Equal(t, tenant.Name, principal.CompanyName)

	resolved, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, account.Email, resolved.Email)
	assert.Equal(t, shared.RoleAdmin, resolved.Role)
	require.NotNil(t, resolved.TenantID)
	assert.Equal(t, tenant.ID, *resolved.TenantID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, account, _ := newFixture(t)

	_, _, err := svc.Login(context.Background(), account.Email, "wrong-password")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestResolveDeniesInactiveAccount(t *testing.T) {
	svc, _, account, _ := newFixture(t)

	token, _, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)

	account.Status = StatusInactive
	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestResolveDeniesSuspendedTenant(t *testing.T) {
	svc, _, account, tenant := newFixture(t)

	token, _, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)

	// The token is still valid and the account still active; tenant
	// suspension alone must revoke access.
	tenant.Status = StatusSuspended
	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrTenantSuspended)
}

func TestResolveFallsBackToClaimDisplayFields(t *testing.T) {
	svc, repo, account, tenant := newFixture(t)

	token, _, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)

	// Tenant lookup misses entirely; resolution degrades display data
	// instead of denying access.
	repo.tenants = map[uuid.UUID]*Tenant{}
	principal, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, tenant.Code, principal.CompanyCode)
	assert.Equal(t, tenant.Name, principal.CompanyName)
}

func TestResolvePrefersLiveTenantDisplayFields(t *testing.T) {
	svc, _, account, tenant := newFixture(t)

	token, _, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)

	tenant.Name = "Acme Academy (renamed)"
	principal, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Acme Academy (renamed)", principal.CompanyName)
}

func TestResolveToleratesTenantLookupError(t *testing.T) {
	svc, repo, account, _ := newFixture(t)

	token, _, err := svc.Login(context.Background(), account.Email, "s3cret-pass")
	require.NoError(t, err)

	repo.tenantErr = errors.New("connection refused")
	principal, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Acme Academy", principal.CompanyName)
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	svc, _, _, _ := newFixture(t)

	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestSuperAdminHasNoTenant(t *testing.T) {
	svc, repo, _, _ := newFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("root-password"), bcrypt.MinCost)
	require.NoError(t, err)
	root := &Account{
		ID:           uuid.New(),
		Email:        "root@attendly.test",
		PasswordHash: string(hash),
		Role:         shared.RoleSuperAdmin,
		Status:       StatusActive,
	}
	repo.accountsByEmail[root.Email] = root
	repo.accountsByID[root.ID] = root

	token, principal, err := svc.Login(context.Background(), root.Email, "root-password")
	require.NoError(t, err)
	assert.Nil(t, principal.TenantID)
	assert.True(t, principal.IsSuperAdmin())

	resolved, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, resolved.TenantID)
	assert.True(t, resolved.IsSuperAdmin())
}
