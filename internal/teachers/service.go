package teachers

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

func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]Teacher, int, error) {
	var tenantID *uuid.UUID
	if actor != nil && !actor.IsSuperAdmin() {
		tenantID = actor.TenantID
	}
	return s.repo.List(ctx, tenantID, filters)
}

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Teacher, error) {
	teacher, err := s.repo.Get(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if actor != nil && !actor.BelongsTo(teacher.TenantID) {
		return Teacher{}, shared.ErrNotFound
	}
	return teacher, nil
}

func (s *Service) Create(ctx context.Context, actor *shared.Principal, form TeacherForm) (Teacher, error) {
	if actor == nil || actor.TenantID == nil {
		return Teacher{}, shared.ErrForbidden
	}
	branchID, err := uuid.Parse(form.BranchID)
	if err != nil {
		return Teacher{}, shared.ErrNotFound
	}
	teacher := Teacher{
		ID:           uuid.New(),
		TenantID:     *actor.TenantID,
		BranchID:     branchID,
		EmployeeCode: strings.ToUpper(strings.TrimSpace(form.EmployeeCode)),
		FullName:     strings.TrimSpace(form.FullName),
		Email:        strings.ToLower(strings.TrimSpace(form.Email)),
		Subject:      strings.TrimSpace(form.Subject),
		IsActive:     true,
	}
	return s.repo.Create(ctx, teacher)
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form TeacherForm) (Teacher, error) {
	teacher, err := s.Get(ctx, actor, id)
	if err != nil {
		return Teacher{}, err
	}
	if branchID, err := uuid.Parse(form.BranchID); err == nil {
		teacher.BranchID = branchID
	}
	teacher.FullName = strings.TrimSpace(form.FullName)
	teacher.Email = strings.ToLower(strings.TrimSpace(form.Email))
	teacher.Subject = strings.TrimSpace(form.Subject)
	if err := s.repo.Update(ctx, id, teacher); err != nil {
		return Teacher{}, err
	}
	return teacher, nil
}

func (s *Service) Delete(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
