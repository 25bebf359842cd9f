package students

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/shared"
)

type memRepo struct {
	students map[uuid.UUID]Student
	byCode   map[string]uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{students: map[uuid.UUID]Student{}, byCode: map[string]uuid.UUID{}}
}

func (m *memRepo) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Student, int, error) {
	var out []Student
	for _, s := range m.students {
		if tenantID == nil || s.TenantID == *tenantID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return Student{}, shared.ErrNotFound
}

func (m *memRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (Student, error) {
	if id, ok := m.byCode[code]; ok {
		if s := m.students[id]; s.TenantID == tenantID {
			return s, nil
		}
	}
	return Student{}, shared.ErrNotFound
}

func (m *memRepo) Create(ctx context.Context, student Student) (Student, error) {
	if _, ok := m.byCode[student.Code]; ok {
		return Student{}, shared.ErrDuplicate
	}
	m.students[student.ID] = student
	m.byCode[student.Code] = student.ID
	return student, nil
}

func (m *memRepo) Update(ctx context.Context, id uuid.UUID, student Student) error {
	existing, ok := m.students[id]
	if !ok {
		return shared.ErrNotFound
	}
	student.ID = id
	student.TenantID = existing.TenantID
	student.Code = existing.Code
	m.students[id] = student
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s, ok := m.students[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byCode, s.Code)
	delete(m.students, id)
	return nil
}

func adminFor(tenantID uuid.UUID) *shared.Principal {
	return &shared.Principal{UserID: uuid.New(), Role: shared.RoleAdmin, TenantID: &tenantID}
}

func TestCreateNormalizesAndHashesPIN(t *testing.T) {
	svc := NewService(newMemRepo())
	tenantID := uuid.New()

	student, err := svc.Create(context.Background(), adminFor(tenantID), StudentForm{
		BranchID: uuid.New().String(),
		Code:     "stu-001",
		FullName: "  jane   DOE ",
		PIN:      "4321",
	})
	require.NoError(t, err)

	assert.Equal(t, "STU-001", student.Code)
	assert.Equal(t, "Jane Doe", student.FullName)
	assert.NotEqual(t, "4321", student.PINHash)
	assert.True(t, svc.VerifyPIN(student, "4321"))
	assert.False(t, svc.VerifyPIN(student, "1234"))
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newMemRepo())
	tenantID := uuid.New()
	form := StudentForm{BranchID: uuid.New().String(), Code: "STU-1", FullName: "A B", PIN: "1111"}

	_, err := svc.Create(context.Background(), adminFor(tenantID), form)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), adminFor(tenantID), form)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestGetHidesOtherTenants(t *testing.T) {
	svc := NewService(newMemRepo())
	tenantID := uuid.New()

	student, err := svc.Create(context.Background(), adminFor(tenantID), StudentForm{
		BranchID: uuid.New().String(), Code: "STU-2", FullName: "C D", PIN: "2222",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), adminFor(uuid.New()), student.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.Get(context.Background(), adminFor(tenantID), student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
}

func TestUpdateRotatesPIN(t *testing.T) {
	svc := NewService(newMemRepo())
	tenantID := uuid.New()
	actor := adminFor(tenantID)

	student, err := svc.Create(context.Background(), actor, StudentForm{
		BranchID: uuid.New().String(), Code: "STU-3", FullName: "E F", PIN: "3333",
	})
	require.NoError(t, err)

	newPIN := "9999"
	updated, err := svc.Update(context.Background(), actor, student.ID, UpdateForm{PIN: &newPIN})
	require.NoError(t, err)
	assert.True(t, svc.VerifyPIN(updated, "9999"))
	assert.False(t, svc.VerifyPIN(updated, "3333"))
}
