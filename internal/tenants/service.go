package tenants

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/shared"
)

type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Tenant, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Tenant, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor *shared.Principal, form TenantForm) (Tenant, error) {
	tenant := Tenant{
		ID:     uuid.New(),
		Code:   strings.ToUpper(strings.TrimSpace(form.Code)),
		Name:   strings.TrimSpace(form.Name),
		Status: StatusActive,
	}
	created, err := s.repo.Create(ctx, tenant)
	if err != nil {
		return Tenant{}, err
	}
	s.record(ctx, actor, "tenant.create", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form TenantForm) error {
	tenant := Tenant{
		Code: strings.ToUpper(strings.TrimSpace(form.Code)),
		Name: strings.TrimSpace(form.Name),
	}
	if err := s.repo.Update(ctx, id, tenant); err != nil {
		return err
	}
	s.record(ctx, actor, "tenant.update", id)
	return nil
}

// SetStatus suspends or reactivates a tenant. Suspension revokes every
// session under the tenant on its next request via identity resolution.
func (s *Service) SetStatus(ctx context.Context, actor *shared.Principal, id uuid.UUID, status string) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.record(ctx, actor, "tenant.status."+status, id)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "tenant.delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actor *shared.Principal, action string, id uuid.UUID) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "tenant",
		EntityID: id.String(),
	})
}
