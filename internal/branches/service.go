package branches

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns branches visible to the principal. Tenant-scoped principals
// only ever see their own tenant's branches regardless of requested filters.
func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]Branch, int, error) {
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

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Branch, error) {
	branch, err := s.repo.Get(ctx, id)
	if err != nil {
		return Branch{}, err
	}
	if actor != nil && !actor.BelongsTo(branch.TenantID) {
		return Branch{}, shared.ErrNotFound
	}
	return branch, nil
}

func (s *Service) Create(ctx context.Context, actor *shared.Principal, form BranchForm) (Branch, error) {
	tenantID, err := uuid.Parse(form.TenantID)
	if err != nil {
		return Branch{}, shared.ErrNotFound
	}
	if actor != nil && !actor.BelongsTo(tenantID) {
		return Branch{}, shared.ErrForbidden
	}
	branch := Branch{
		ID:       uuid.New(),
		TenantID: tenantID,
		Code:     strings.ToUpper(strings.TrimSpace(form.Code)),
		Name:     strings.TrimSpace(form.Name),
		Address:  strings.TrimSpace(form.Address),
	}
	return s.repo.Create(ctx, branch)
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form BranchForm) error {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	branch := Branch{
		TenantID: existing.TenantID,
		Code:     strings.ToUpper(strings.TrimSpace(form.Code)),
		Name:     strings.TrimSpace(form.Name),
		Address:  strings.TrimSpace(form.Address),
	}
	return s.repo.Update(ctx, id, branch)
}

func (s *Service) Delete(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
