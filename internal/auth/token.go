package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/shared"
)

// Claims is the wire contract for access tokens. The subject carries the
// account id; tenantId is null for super admins. Company fields are embedded
// copies used as a display fallback when the live tenant lookup misses.
type Claims struct {
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	TenantID    *string `json:"tenantId"`
	CompanyCode string  `json:"companyCode,omitempty"`
	CompanyName string  `json:"companyName,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the manager clock for deterministic tests.
func (m *TokenManager) WithClock(clock func() time.Time) {
	if clock != nil {
		m.now = clock
	}
}

// Issue creates a signed token for the account. The tenant may be nil for
// super admins.
func (m *TokenManager) Issue(account *Account, tenant *Tenant) (string, error) {
	now := m.now()
	claims := Claims{
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if account.TenantID != nil {
		id := account.TenantID.String()
		claims.TenantID = &id
	}
	if tenant != nil {
		claims.CompanyCode = tenant.Code
		claims.CompanyName = tenant.Name
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of a raw token and returns its
// claims. Any failure maps to ErrUnauthorized.
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, shared.ErrUnauthorized
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || parsed == nil || !parsed.Valid {
		return nil, shared.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, shared.ErrUnauthorized
	}
	return claims, nil
}
