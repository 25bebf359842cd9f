package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/shared"
)

// Service wraps authentication and identity resolution rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates email/password credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *shared.Principal, error) {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if account.Status != StatusActive {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	var tenant *Tenant
	if account.TenantID != nil {
		tenant, err = s.repo.GetTenant(ctx, *account.TenantID)
		if err != nil {
			return "", nil, shared.ErrInvalidCredentials
		}
		if tenant.Status != StatusActive {
			return "", nil, shared.ErrInvalidCredentials
		}
	}

	token, err := s.tokens.Issue(account, tenant)
	if err != nil {
		return "", nil, err
	}
	return token, buildPrincipal(account, claimsFor(account, tenant), tenant), nil
}

// Resolve turns a bearer token into a Principal, re-verifying account and
// tenant liveness on every call. There is no caching: a deactivated account
// or suspended tenant loses access on its next request.
func (s *Service) Resolve(ctx context.Context, raw string) (*shared.Principal, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if account.Status != StatusActive {
		return nil, shared.ErrUnauthorized
	}

	var tenant *Tenant
	if account.TenantID != nil {
		tenant, err = s.repo.GetTenant(ctx, *account.TenantID)
		switch {
		case err == nil:
			if tenant.Status != StatusActive {
				return nil, shared.ErrTenantSuspended
			}
		case errors.Is(err, shared.ErrNotFound):
			// Display fields fall back to the token-embedded copies below.
			tenant = nil
		default:
			tenant = nil
		}
	}

	return buildPrincipal(account, claims, tenant), nil
}

func claimsFor(account *Account, tenant *Tenant) *Claims {
	c := &Claims{Email: account.Email, Role: account.Role}
	if tenant != nil {
		c.CompanyCode = tenant.Code
		c.CompanyName = tenant.Name
	}
	return c
}

// buildPrincipal merges token claims with live store data. Claims supply the
// identity fields; live tenant data overrides the display fields when the
// lookup succeeded.
func buildPrincipal(account *Account, claims *Claims, tenant *Tenant) *shared.Principal {
	p := &shared.Principal{
		UserID:      account.ID,
		Email:       claims.Email,
		Role:        claims.Role,
		TenantID:    account.TenantID,
		CompanyCode: claims.CompanyCode,
		CompanyName: claims.CompanyName,
	}
	if p.Email == "" {
		p.Email = account.Email
	}
	if p.Role == "" {
		p.Role = account.Role
	}
	if tenant != nil {
		p.CompanyCode = tenant.Code
		p.CompanyName = tenant.Name
	}
	return p
}
