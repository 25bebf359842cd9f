package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/shared"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("secret", time.Hour)
	tenantID := uuid.New()
	account := &Account{ID: uuid.New(), Email: "a@b.test", Role: shared.RoleTeacher, TenantID: &tenantID}
	tenant := &Tenant{ID: tenantID, Code: "SCH1", Name: "School One"}

	raw, err := mgr.Issue(account, tenant)
	require.NoError(t, err)

	claims, err := mgr.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.Subject)
	assert.Equal(t, "a@b.test", claims.Email)
	assert.Equal(t, shared.RoleTeacher, claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, tenantID.String(), *claims.TenantID)
	assert.Equal(t, "SCH1", claims.CompanyCode)
	assert.Equal(t, "School One", claims.CompanyName)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewTokenManager("secret", time.Minute)
	issued := time.Now().UTC()
	mgr.WithClock(func() time.Time { return issued })

	raw, err := mgr.Issue(&Account{ID: uuid.New(), Email: "x@y.test", Role: shared.RoleViewer}, nil)
	require.NoError(t, err)

	mgr.WithClock(func() time.Time { return issued.Add(2 * time.Minute) })
	_, err = mgr.Parse(raw)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestWrongSecretRejected(t *testing.T) {
	mgr := NewTokenManager("secret", time.Hour)
	raw, err := mgr.Issue(&Account{ID: uuid.New(), Email: "x@y.test", Role: shared.RoleViewer}, nil)
	require.NoError(t, err)

	other := NewTokenManager("different", time.Hour)
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestEmptyTokenRejected(t *testing.T) {
	mgr := NewTokenManager("secret", time.Hour)
	_, err := mgr.Parse("  ")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
