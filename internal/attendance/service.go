package attendance

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/branches"
	"github.com/attendly/attendly/internal/observability"
	"github.com/attendly/attendly/internal/shared"
	"github.com/attendly/attendly/internal/students"
)

// Business failure codes surfaced to kiosk terminals.
const (
	CodeInvalidPIN       = "INVALID_PIN"
	CodeStudentNotFound  = "STUDENT_NOT_FOUND"
	CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	CodeNotCheckedIn     = "NOT_CHECKED_IN"
	CodeBranchNotFound   = "BRANCH_NOT_FOUND"
)

// KioskError carries a stable code the kiosk can react to alongside a
// human-readable message.
type KioskError struct {
	Code    string
	Message string
}

func (e *KioskError) Error() string {
	return e.Code + ": " + e.Message
}

func kioskErr(code, message string) *KioskError {
	return &KioskError{Code: code, Message: message}
}

// Sessions stay locked for at most a day; the auto-checkout job closes
// anything older.
const openSessionTTL = 24 * time.Hour

type Service struct {
	repo        Repository
	studentRepo students.Repository
	branchRepo  branches.Repository
	locks       *redis.Client
	metrics     *observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo Repository, studentRepo students.Repository, branchRepo branches.Repository, locks *redis.Client, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		studentRepo: studentRepo,
		branchRepo:  branchRepo,
		locks:       locks,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckinResult is the snapshot returned to the kiosk after either call.
type CheckinResult struct {
	Event      Event
	BranchName string
}

// CheckIn opens a session for the student. The redis lock guards against two
// terminals racing the same student; the open-row query is the source of
// truth when the lock has expired.
func (s *Service) CheckIn(ctx context.Context, branchID uuid.UUID, studentCode, pin string) (CheckinResult, error) {
	branch, err := s.branchRepo.Get(ctx, branchID)
	if errors.Is(err, shared.ErrNotFound) {
		return CheckinResult{}, kioskErr(CodeBranchNotFound, "branch not found")
	}
	if err != nil {
		return CheckinResult{}, err
	}

	student, err := s.findStudent(ctx, branch.TenantID, studentCode, pin)
	if err != nil {
		return CheckinResult{}, err
	}

	if _, err := s.repo.FindOpenByStudent(ctx, student.ID); err == nil {
		return CheckinResult{}, kioskErr(CodeAlreadyCheckedIn, "student already has an open session")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return CheckinResult{}, err
	}

	lockKey := shared.OpenSessionLockKey(student.ID.String())
	acquired, err := s.locks.SetNX(ctx, lockKey, branch.ID.String(), openSessionTTL).Result()
	if err != nil {
		return CheckinResult{}, err
	}
	if !acquired {
		return CheckinResult{}, kioskErr(CodeAlreadyCheckedIn, "student already has an open session")
	}

	event, err := s.repo.Create(ctx, Event{
		ID:          uuid.New(),
		TenantID:    branch.TenantID,
		BranchID:    branch.ID,
		StudentID:   student.ID,
		StudentName: student.FullName,
		StudentCode: student.Code,
		CheckinTime: s.now().UTC(),
	})
	if err != nil {
		if delErr := s.locks.Del(ctx, lockKey).Err(); delErr != nil {
			s.logger.Warn("release open-session lock", slog.Any("error", delErr))
		}
		return CheckinResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordCheckin(branch.Code)
	}
	return CheckinResult{Event: event, BranchName: branch.Name}, nil
}

// CheckOut closes the student's open session. Duration is the elapsed time
// in whole minutes, truncated.
func (s *Service) CheckOut(ctx context.Context, branchID uuid.UUID, studentCode, pin string) (CheckinResult, error) {
	branch, err := s.branchRepo.Get(ctx, branchID)
	if errors.Is(err, shared.ErrNotFound) {
		return CheckinResult{}, kioskErr(CodeBranchNotFound, "branch not found")
	}
	if err != nil {
		return CheckinResult{}, err
	}

	student, err := s.findStudent(ctx, branch.TenantID, studentCode, pin)
	if err != nil {
		return CheckinResult{}, err
	}

	event, err := s.repo.FindOpenByStudent(ctx, student.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return CheckinResult{}, kioskErr(CodeNotCheckedIn, "student has no open session")
	}
	if err != nil {
		return CheckinResult{}, err
	}

	checkoutTime := s.now().UTC()
	duration := DurationMinutes(event.CheckinTime, checkoutTime)
	if err := s.repo.Close(ctx, event.ID, checkoutTime, duration, false); err != nil {
		return CheckinResult{}, err
	}

	if err := s.locks.Del(ctx, shared.OpenSessionLockKey(student.ID.String())).Err(); err != nil {
		s.logger.Warn("release open-session lock", slog.Any("error", err))
	}

	event.CheckoutTime = &checkoutTime
	event.DurationMinutes = &duration
	if s.metrics != nil {
		s.metrics.RecordCheckout(branch.Code)
	}
	return CheckinResult{Event: event, BranchName: branch.Name}, nil
}

func (s *Service) findStudent(ctx context.Context, tenantID uuid.UUID, code, pin string) (students.Student, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	student, err := s.studentRepo.FindByCode(ctx, tenantID, normalized)
	if errors.Is(err, shared.ErrNotFound) {
		return students.Student{}, kioskErr(CodeStudentNotFound, "student not found")
	}
	if err != nil {
		return students.Student{}, err
	}
	if !student.IsActive {
		return students.Student{}, kioskErr(CodeStudentNotFound, "student not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PINHash), []byte(pin)) != nil {
		return students.Student{}, kioskErr(CodeInvalidPIN, "incorrect PIN")
	}
	return student, nil
}

// DurationMinutes computes the session length in whole minutes, truncating
// any partial minute.
func DurationMinutes(checkin, checkout time.Time) int {
	d := checkout.Sub(checkin)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// List returns attendance events visible to the principal.
func (s *Service) List(ctx context.Context, actor *shared.Principal, filters shared.ListFilters) ([]Event, int, error) {
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

func (s *Service) Get(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if actor != nil && !actor.BelongsTo(event.TenantID) {
		return Event{}, shared.ErrNotFound
	}
	return event, nil
}

// ManualCheckIn opens a session from the admin API without a kiosk PIN. The
// event lands on the student's home branch.
func (s *Service) ManualCheckIn(ctx context.Context, actor *shared.Principal, studentID uuid.UUID, at *time.Time) (Event, error) {
	student, err := s.studentRepo.Get(ctx, studentID)
	if err != nil {
		return Event{}, err
	}
	if actor != nil && !actor.BelongsTo(student.TenantID) {
		return Event{}, shared.ErrNotFound
	}
	branch, err := s.branchRepo.Get(ctx, student.BranchID)
	if err != nil {
		return Event{}, err
	}

	if _, err := s.repo.FindOpenByStudent(ctx, student.ID); err == nil {
		return Event{}, shared.ErrDuplicate
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Event{}, err
	}

	lockKey := shared.OpenSessionLockKey(student.ID.String())
	acquired, err := s.locks.SetNX(ctx, lockKey, branch.ID.String(), openSessionTTL).Result()
	if err != nil {
		return Event{}, err
	}
	if !acquired {
		return Event{}, shared.ErrDuplicate
	}

	checkin := s.now().UTC()
	if at != nil {
		checkin = at.UTC()
	}
	event, err := s.repo.Create(ctx, Event{
		ID:          uuid.New(),
		TenantID:    branch.TenantID,
		BranchID:    branch.ID,
		StudentID:   student.ID,
		StudentName: student.FullName,
		StudentCode: student.Code,
		CheckinTime: checkin,
	})
	if err != nil {
		if delErr := s.locks.Del(ctx, lockKey).Err(); delErr != nil {
			s.logger.Warn("release open-session lock", slog.Any("error", delErr))
		}
		return Event{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordCheckin(branch.Code)
	}
	return event, nil
}

// ForceClose closes an open session from the admin API.
func (s *Service) ForceClose(ctx context.Context, actor *shared.Principal, id uuid.UUID) (Event, error) {
	event, err := s.Get(ctx, actor, id)
	if err != nil {
		return Event{}, err
	}
	if !event.Open() {
		return Event{}, shared.ErrDuplicate
	}
	checkoutTime := s.now().UTC()
	duration := DurationMinutes(event.CheckinTime, checkoutTime)
	if err := s.repo.Close(ctx, event.ID, checkoutTime, duration, false); err != nil {
		return Event{}, err
	}
	if err := s.locks.Del(ctx, shared.OpenSessionLockKey(event.StudentID.String())).Err(); err != nil {
		s.logger.Warn("release open-session lock", slog.Any("error", err))
	}
	event.CheckoutTime = &checkoutTime
	event.DurationMinutes = &duration
	return event, nil
}

// AutoCheckoutOpenSessions closes every open session, stamping the given
// checkout time. Used by the nightly sweep.
func (s *Service) AutoCheckoutOpenSessions(ctx context.Context, at time.Time) (int, error) {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, event := range open {
		duration := DurationMinutes(event.CheckinTime, at)
		if err := s.repo.Close(ctx, event.ID, at, duration, true); err != nil {
			s.logger.Error("auto checkout", slog.String("event_id", event.ID.String()), slog.Any("error", err))
			continue
		}
		if err := s.locks.Del(ctx, shared.OpenSessionLockKey(event.StudentID.String())).Err(); err != nil {
			s.logger.Warn("release open-session lock", slog.Any("error", err))
		}
		closed++
	}
	return closed, nil
}

// SummarizeDay aggregates one tenant's events for the given day.
func (s *Service) SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (DaySummary, error) {
	return s.repo.SummarizeDay(ctx, tenantID, day)
}
