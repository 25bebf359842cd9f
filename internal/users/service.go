package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/rbac"
	"github.com/attendly/attendly/internal/shared"
)

type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]User, int, error) {
	var tenantID *uuid.UUID
	if actor != nil && !actor.IsSuperAdmin() {
		tenantID = actor.TenantID
	} else if filters.TenantID != nil {
		if parsed, err := uuid.Parse(*filters.TenantID); err == nil {
			tenantID = &parsed
		}
	}
	return s.repo.List(ctx, tenantID, filters)
}

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !visibleTo(actor, user) {
		return User{}, shared.ErrNotFound
	}
	return user, nil
}

// Create provisions an account. Tenant admins may only create accounts inside
// their own tenant and can never mint a super_admin.
func (s *Service) Create(ctx context.Context, actor *shared.Principal, form CreateForm) (User, error) {
	role := strings.TrimSpace(form.Role)
	if !rbac.KnownRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
	}

	var tenantID *uuid.UUID
	if form.TenantID != "" {
		parsed, err := uuid.Parse(form.TenantID)
		if err != nil {
			return User{}, fmt.Errorf("%w: invalid tenant_id", httpx.ErrValidation)
		}
		tenantID = &parsed
	}
	if role == shared.RoleSuperAdmin {
		if actor != nil && !actor.IsSuperAdmin() {
			return User{}, shared.ErrForbidden
		}
		tenantID = nil
	} else if tenantID == nil {
		return User{}, fmt.Errorf("%w: tenant_id required for role %q", httpx.ErrValidation, role)
	}
	if actor != nil && !actor.IsSuperAdmin() {
		if tenantID == nil || !actor.BelongsTo(*tenantID) {
			return User{}, shared.ErrForbidden
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(form.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(form.FullName),
		Role:         role,
		TenantID:     tenantID,
		Status:       StatusActive,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actor, "user.create", created.ID, created.TenantID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form UpdateForm) error {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if form.FullName != nil {
		existing.FullName = strings.TrimSpace(*form.FullName)
	}
	if form.Role != nil {
		role := strings.TrimSpace(*form.Role)
		if !rbac.KnownRole(role) {
			return fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
		}
		if role == shared.RoleSuperAdmin && (actor == nil || !actor.IsSuperAdmin()) {
			return shared.ErrForbidden
		}
		existing.Role = role
	}
	if form.Status != nil {
		existing.Status = *form.Status
	}
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return err
	}
	s.record(ctx, actor, "user.update", id, existing.TenantID)
	return nil
}

// Deactivate flips the account to inactive. The account's token keeps
// verifying but identity resolution rejects it on the next request.
func (s *Service) Deactivate(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, StatusInactive); err != nil {
		return err
	}
	s.record(ctx, actor, "user.deactivate", id, existing.TenantID)
	return nil
}

func visibleTo(actor *shared.Principal, user User) bool {
	if actor == nil || actor.IsSuperAdmin() {
		return true
	}
	if user.TenantID == nil {
		return false
	}
	return actor.BelongsTo(*user.TenantID)
}

func (s *Service) record(ctx context.Context, actor *shared.Principal, action string, id uuid.UUID, tenantID *uuid.UUID) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		TenantID: tenantID,
		Action:   action,
		Entity:   "user",
		EntityID: id.String(),
	})
}
