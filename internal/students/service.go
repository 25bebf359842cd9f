package students

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/attendly/attendly/internal/shared"
)

type Service struct {
	repo  Repository
	title cases.Caser
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, title: cases.Title(language.Und)}
}

func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]Student, int, error) {
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

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Student, error) {
	student, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if actor != nil && !actor.BelongsTo(student.TenantID) {
		return Student{}, shared.ErrNotFound
	}
	return student, nil
}

func (s *Service) Create(ctx context.Context, actor *shared.Principal, form StudentForm) (Student, error) {
	if actor == nil || actor.TenantID == nil {
		return Student{}, shared.ErrForbidden
	}
	branchID, err := uuid.Parse(form.BranchID)
	if err != nil {
		return Student{}, shared.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.PIN), bcrypt.DefaultCost)
	if err != nil {
		return Student{}, err
	}
	student := Student{
		ID:       uuid.New(),
		TenantID: *actor.TenantID,
		BranchID: branchID,
		Code:     strings.ToUpper(strings.TrimSpace(form.Code)),
		FullName: s.NormalizeName(form.FullName),
		PINHash:  string(hash),
		IsActive: true,
	}
	return s.repo.Create(ctx, student)
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form UpdateForm) (Student, error) {
	student, err := s.Get(ctx, actor, id)
	if err != nil {
		return Student{}, err
	}
	if form.BranchID != nil {
		branchID, err := uuid.Parse(*form.BranchID)
		if err != nil {
			return Student{}, shared.ErrNotFound
		}
		student.BranchID = branchID
	}
	if form.FullName != nil {
		student.FullName = s.NormalizeName(*form.FullName)
	}
	if form.PIN != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*form.PIN), bcrypt.DefaultCost)
		if err != nil {
			return Student{}, err
		}
		student.PINHash = string(hash)
	}
	if form.IsActive != nil {
		student.IsActive = *form.IsActive
	}
	if err := s.repo.Update(ctx, id, student); err != nil {
		return Student{}, err
	}
	return student, nil
}

func (s *Service) Delete(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// VerifyPIN checks a candidate PIN against the stored hash.
func (s *Service) VerifyPIN(student Student, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(student.PINHash), []byte(pin)) == nil
}

// NormalizeName trims and title-cases a display name.
func (s *Service) NormalizeName(name string) string {
	return s.title.String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}
