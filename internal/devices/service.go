package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/branches"
	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/shared"
)

type Service struct {
	repo       Repository
	branchRepo branches.Repository
	audit      *shared.AuditLogger
}

func NewService(repo Repository, branchRepo branches.Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, branchRepo: branchRepo, audit: audit}
}

func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]Device, int, error) {
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

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Device, error) {
	device, err := s.repo.Get(ctx, id)
	if err != nil {
		return Device{}, err
	}
	if actor != nil && !actor.BelongsTo(device.TenantID) {
		return Device{}, shared.ErrNotFound
	}
	return device, nil
}

// Register creates a device under a branch, inheriting the branch's tenant.
func (s *Service) Register(ctx context.Context, actor *shared.Principal, form RegisterForm) (Device, error) {
	branchID, err := uuid.Parse(form.BranchID)
	if err != nil {
		return Device{}, fmt.Errorf("%w: invalid branchId", httpx.ErrValidation)
	}
	branch, err := s.branchRepo.Get(ctx, branchID)
	if err != nil {
		return Device{}, err
	}
	if actor != nil && !actor.BelongsTo(branch.TenantID) {
		return Device{}, shared.ErrForbidden
	}

	device := Device{
		ID:           uuid.New(),
		TenantID:     branch.TenantID,
		BranchID:     branch.ID,
		SerialNumber: strings.TrimSpace(form.SerialNumber),
		Name:         strings.TrimSpace(form.Name),
		Model:        strings.TrimSpace(form.Model),
		Location:     strings.TrimSpace(form.Location),
		IPAddress:    strings.TrimSpace(form.IPAddress),
		Status:       StatusActive,
	}
	if form.TimezoneOffset != nil {
		device.TimezoneOffset = *form.TimezoneOffset
	}
	created, err := s.repo.Create(ctx, device)
	if err != nil {
		return Device{}, err
	}
	s.record(ctx, actor, "device.register", created.ID, created.TenantID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor *shared.Principal, id uuid.UUID, form UpdateForm) error {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if form.Name != nil {
		existing.Name = strings.TrimSpace(*form.Name)
	}
	if form.Model != nil {
		existing.Model = strings.TrimSpace(*form.Model)
	}
	if form.Location != nil {
		existing.Location = strings.TrimSpace(*form.Location)
	}
	if form.IPAddress != nil {
		existing.IPAddress = strings.TrimSpace(*form.IPAddress)
	}
	if form.TimezoneOffset != nil {
		existing.TimezoneOffset = *form.TimezoneOffset
	}
	if form.Status != nil {
		existing.Status = *form.Status
	}
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return err
	}
	s.record(ctx, actor, "device.update", id, existing.TenantID)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *shared.Principal, id uuid.UUID) error {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "device.delete", id, existing.TenantID)
	return nil
}

// Enroll binds one student to the device-local user id.
func (s *Service) Enroll(ctx context.Context, actor *shared.Principal, form EnrollForm) (Enrollment, error) {
	deviceID, err := uuid.Parse(form.DeviceID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("%w: invalid deviceId", httpx.ErrValidation)
	}
	studentID, err := uuid.Parse(form.StudentID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("%w: invalid studentId", httpx.ErrValidation)
	}
	device, err := s.Get(ctx, actor, deviceID)
	if err != nil {
		return Enrollment{}, err
	}
	enrollment := Enrollment{
		ID:           uuid.New(),
		DeviceID:     device.ID,
		StudentID:    studentID,
		DeviceUserID: strings.TrimSpace(form.DeviceUserID),
	}
	created, err := s.repo.CreateEnrollment(ctx, enrollment)
	if err != nil {
		return Enrollment{}, err
	}
	s.record(ctx, actor, "device.enroll", created.ID, device.TenantID)
	return created, nil
}

// BulkEnrollResult summarises a bulk enrollment: duplicates are skipped and
// reported rather than failing the batch.
type BulkEnrollResult struct {
	Enrolled []Enrollment `json:"enrolled"`
	Skipped  []string     `json:"skipped,omitempty"`
}

func (s *Service) BulkEnroll(ctx context.Context, actor *shared.Principal, form BulkEnrollForm) (BulkEnrollResult, error) {
	deviceID, err := uuid.Parse(form.DeviceID)
	if err != nil {
		return BulkEnrollResult{}, fmt.Errorf("%w: invalid deviceId", httpx.ErrValidation)
	}
	device, err := s.Get(ctx, actor, deviceID)
	if err != nil {
		return BulkEnrollResult{}, err
	}

	var result BulkEnrollResult
	for _, entry := range form.Enrollments {
		studentID, err := uuid.Parse(entry.StudentID)
		if err != nil {
			result.Skipped = append(result.Skipped, entry.StudentID)
			continue
		}
		created, err := s.repo.CreateEnrollment(ctx, Enrollment{
			ID:           uuid.New(),
			DeviceID:     device.ID,
			StudentID:    studentID,
			DeviceUserID: strings.TrimSpace(entry.DeviceUserID),
		})
		if errors.Is(err, shared.ErrDuplicate) {
			result.Skipped = append(result.Skipped, entry.StudentID)
			continue
		}
		if err != nil {
			return BulkEnrollResult{}, err
		}
		result.Enrolled = append(result.Enrolled, created)
	}
	s.record(ctx, actor, "device.enroll.bulk", device.ID, device.TenantID)
	return result, nil
}

func (s *Service) ListEnrollments(ctx context.Context, actor *shared.Principal, deviceID uuid.UUID) ([]Enrollment, error) {
	if _, err := s.Get(ctx, actor, deviceID); err != nil {
		return nil, err
	}
	return s.repo.ListEnrollments(ctx, deviceID)
}

// Unenroll removes one student binding from a device. The enrollment must
// belong to the device so a tenant admin cannot delete by guessed id alone.
func (s *Service) Unenroll(ctx context.Context, actor *shared.Principal, deviceID, enrollmentID uuid.UUID) error {
	device, err := s.Get(ctx, actor, deviceID)
	if err != nil {
		return err
	}
	enrollments, err := s.repo.ListEnrollments(ctx, device.ID)
	if err != nil {
		return err
	}
	found := false
	for _, e := range enrollments {
		if e.ID == enrollmentID {
			found = true
			break
		}
	}
	if !found {
		return shared.ErrNotFound
	}
	if err := s.repo.DeleteEnrollment(ctx, enrollmentID); err != nil {
		return err
	}
	s.record(ctx, actor, "device.unenroll", enrollmentID, device.TenantID)
	return nil
}

func (s *Service) record(ctx context.Context, actor *shared.Principal, action string, id uuid.UUID, tenantID uuid.UUID) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		TenantID: &tenantID,
		Action:   action,
		Entity:   "device",
		EntityID: id.String(),
	})
}
