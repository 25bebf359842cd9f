package attendance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendly/internal/branches"
	"github.com/attendly/attendly/internal/shared"
	"github.com/attendly/attendly/internal/students"
)

type memEventRepo struct {
	events map[uuid.UUID]Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: map[uuid.UUID]Event{}}
}

func (m *memEventRepo) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Event, int, error) {
	var out []Event
	for _, e := range m.events {
		if tenantID == nil || e.TenantID == *tenantID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (m *memEventRepo) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return Event{}, shared.ErrNotFound
}

func (m *memEventRepo) FindOpenByStudent(ctx context.Context, studentID uuid.UUID) (Event, error) {
	for _, e := range m.events {
		if e.StudentID == studentID && e.Open() {
			return e, nil
		}
	}
	return Event{}, shared.ErrNotFound
}

func (m *memEventRepo) ListOpen(ctx context.Context) ([]Event, error) {
	var out []Event
	for _, e := range m.events {
		if e.Open() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) Create(ctx context.Context, event Event) (Event, error) {
	m.events[event.ID] = event
	return event, nil
}

func (m *memEventRepo) Close(ctx context.Context, id uuid.UUID, checkoutTime time.Time, durationMinutes int, autoClosed bool) error {
	e, ok := m.events[id]
	if !ok || !e.Open() {
		return shared.ErrNotFound
	}
	e.CheckoutTime = &checkoutTime
	e.DurationMinutes = &durationMinutes
	e.AutoClosed = autoClosed
	m.events[id] = e
	return nil
}

func (m *memEventRepo) SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (DaySummary, error) {
	summary := DaySummary{TenantID: tenantID, Day: day.Format("2006-01-02")}
	seen := map[uuid.UUID]bool{}
	for _, e := range m.events {
		if e.TenantID != tenantID {
			continue
		}
		summary.Checkins++
		if e.Open() {
			summary.StillOpen++
		} else {
			summary.Checkouts++
			summary.TotalMinutes += *e.DurationMinutes
		}
		seen[e.StudentID] = true
	}
	summary.UniqueStudents = len(seen)
	return summary, nil
}

type memStudentRepo struct {
	byCode map[string]students.Student
}

func (m *memStudentRepo) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]students.Student, int, error) {
	return nil, 0, nil
}

func (m *memStudentRepo) Get(ctx context.Context, id uuid.UUID) (students.Student, error) {
	for _, s := range m.byCode {
		if s.ID == id {
			return s, nil
		}
	}
	return students.Student{}, shared.ErrNotFound
}

func (m *memStudentRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (students.Student, error) {
	if s, ok := m.byCode[code]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return students.Student{}, shared.ErrNotFound
}

func (m *memStudentRepo) Create(ctx context.Context, student students.Student) (students.Student, error) {
	m.byCode[student.Code] = student
	return student, nil
}

func (m *memStudentRepo) Update(ctx context.Context, id uuid.UUID, student students.Student) error {
	return nil
}

func (m *memStudentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type memBranchRepo struct {
	branches map[uuid.UUID]branches.Branch
}

func (m *memBranchRepo) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]branches.Branch, int, error) {
	return nil, 0, nil
}

func (m *memBranchRepo) Get(ctx context.Context, id uuid.UUID) (branches.Branch, error) {
	if b, ok := m.branches[id]; ok {
		return b, nil
	}
	return branches.Branch{}, shared.ErrNotFound
}

func (m *memBranchRepo) Create(ctx context.Context, branch branches.Branch) (branches.Branch, error) {
	m.branches[branch.ID] = branch
	return branch, nil
}

func (m *memBranchRepo) Update(ctx context.Context, id uuid.UUID, branch branches.Branch) error {
	return nil
}

func (m *memBranchRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fixture struct {
	svc       *Service
	events    *memEventRepo
	branchID  uuid.UUID
	tenantID  uuid.UUID
	studentID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tenantID := uuid.New()
	branchID := uuid.New()
	studentID := uuid.New()

	pinHash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	studentRepo := &memStudentRepo{byCode: map[string]students.Student{
		"STU-001": {
			ID:       studentID,
			TenantID: tenantID,
			BranchID: branchID,
			Code:     "STU-001",
			FullName: "Jane Doe",
			PINHash:  string(pinHash),
			IsActive: true,
		},
	}}
	branchRepo := &memBranchRepo{branches: map[uuid.UUID]branches.Branch{
		branchID: {ID: branchID, TenantID: tenantID, Code: "MAIN", Name: "Main Campus"},
	}}
	events := newMemEventRepo()

	svc := NewService(events, studentRepo, branchRepo, client, nil, slog.Default())
	return &fixture{svc: svc, events: events, branchID: branchID, tenantID: tenantID, studentID: studentID}
}

func TestCheckInHappyPath(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CheckIn(context.Background(), f.branchID, "stu-001", "1234")
	require.NoError(t, err)
	assert.Equal(t, "Main Campus", result.BranchName)
	assert.Equal(t, "Jane Doe", result.Event.StudentName)
	assert.True(t, result.Event.Open())
}

func TestCheckInRejectsSecondOpenSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)

	_, err = f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	var kerr *KioskError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CodeAlreadyCheckedIn, kerr.Code)
}

func TestCheckInWrongPIN(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "9999")
	var kerr *KioskError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CodeInvalidPIN, kerr.Code)
}

func TestCheckInUnknownStudent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-404", "1234")
	var kerr *KioskError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CodeStudentNotFound, kerr.Code)
}

func TestCheckInUnknownBranch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), uuid.New(), "STU-001", "1234")
	var kerr *KioskError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CodeBranchNotFound, kerr.Code)
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(context.Background(), f.branchID, "STU-001", "1234")
	var kerr *KioskError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, CodeNotCheckedIn, kerr.Code)
}

func TestCheckOutComputesWholeMinutes(t *testing.T) {
	f := newFixture(t)

	checkin := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, 3, 9, 10, 5, 0, 0, time.UTC)

	f.svc.WithClock(func() time.Time { return checkin })
	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)

	f.svc.WithClock(func() time.Time { return checkout })
	result, err := f.svc.CheckOut(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)
	require.NotNil(t, result.Event.DurationMinutes)
	assert.Equal(t, 125, *result.Event.DurationMinutes)
}

func TestCheckOutReleasesLockForNextSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)
	_, err = f.svc.CheckOut(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)

	_, err = f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	assert.NoError(t, err)
}

func TestDurationMinutesTruncates(t *testing.T) {
	base := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 125, DurationMinutes(base, base.Add(125*time.Minute)))
	assert.Equal(t, 45, DurationMinutes(base, base.Add(45*time.Minute+59*time.Second)))
	assert.Equal(t, 60, DurationMinutes(base, base.Add(time.Hour)))
	assert.Equal(t, 0, DurationMinutes(base, base.Add(-time.Minute)))
}

func TestManualCheckInOpensSession(t *testing.T) {
	f := newFixture(t)

	admin := &shared.Principal{Role: shared.RoleAdmin, TenantID: &f.tenantID}
	at := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	event, err := f.svc.ManualCheckIn(context.Background(), admin, f.studentID, &at)
	require.NoError(t, err)
	assert.True(t, event.Open())
	assert.Equal(t, at, event.CheckinTime)
	assert.Equal(t, f.branchID, event.BranchID)
}

func TestManualCheckInRejectsOpenSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)

	_, err = f.svc.ManualCheckIn(context.Background(), nil, f.studentID, nil)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestManualCheckInHidesForeignStudent(t *testing.T) {
	f := newFixture(t)

	otherTenant := uuid.New()
	outsider := &shared.Principal{Role: shared.RoleAdmin, TenantID: &otherTenant}
	_, err := f.svc.ManualCheckIn(context.Background(), outsider, f.studentID, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAutoCheckoutClosesOpenSessions(t *testing.T) {
	f := newFixture(t)

	checkin := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return checkin })
	result, err := f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	require.NoError(t, err)

	sweep := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	closed, err := f.svc.AutoCheckoutOpenSessions(context.Background(), sweep)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	event, err := f.events.Get(context.Background(), result.Event.ID)
	require.NoError(t, err)
	assert.False(t, event.Open())
	assert.True(t, event.AutoClosed)
	assert.Equal(t, 950, *event.DurationMinutes)

	_, err = f.svc.CheckIn(context.Background(), f.branchID, "STU-001", "1234")
	assert.NoError(t, err, "lock released by the sweep")
}
