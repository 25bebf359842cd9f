package devices

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validRegisterForm() RegisterForm {
	return RegisterForm{
		BranchID:     uuid.New().String(),
		SerialNumber: "ZK-4500-0012",
		Name:         "Front Gate",
	}
}

func TestRegisterFormValidation(t *testing.T) {
	v := validator.New()

	t.Run("minimal form passes", func(t *testing.T) {
		assert.NoError(t, v.Struct(validRegisterForm()))
	})

	t.Run("serial number over 100 chars rejected", func(t *testing.T) {
		form := validRegisterForm()
		form.SerialNumber = strings.Repeat("x", 101)
		assert.Error(t, v.Struct(form))
	})

	t.Run("name required", func(t *testing.T) {
		form := validRegisterForm()
		form.Name = ""
		assert.Error(t, v.Struct(form))
	})

	t.Run("ipv6 address accepted", func(t *testing.T) {
		form := validRegisterForm()
		form.IPAddress = "2001:db8:85a3:8d3:1319:8a2e:370:7348"
		assert.NoError(t, v.Struct(form))
	})

	t.Run("non-ip address rejected", func(t *testing.T) {
		form := validRegisterForm()
		form.IPAddress = "front-gate.local"
		assert.Error(t, v.Struct(form))
	})

	t.Run("timezone offset outside range rejected", func(t *testing.T) {
		form := validRegisterForm()
		offset := 900
		form.TimezoneOffset = &offset
		assert.Error(t, v.Struct(form))
	})
}

func TestEnrollFormValidation(t *testing.T) {
	v := validator.New()

	form := EnrollForm{
		DeviceID:     uuid.New().String(),
		StudentID:    uuid.New().String(),
		DeviceUserID: strings.Repeat("9", 51),
	}
	assert.Error(t, v.Struct(form), "device user id over 50 chars")

	form.DeviceUserID = "1042"
	assert.NoError(t, v.Struct(form))
}

func TestBulkEnrollFormDiveValidation(t *testing.T) {
	v := validator.New()

	var form BulkEnrollForm
	form.DeviceID = uuid.New().String()
	assert.Error(t, v.Struct(form), "empty enrollment list rejected")

	form.Enrollments = append(form.Enrollments, struct {
		StudentID    string `json:"studentId" validate:"required,uuid4"`
		DeviceUserID string `json:"deviceUserId" validate:"required,max=50"`
	}{StudentID: "not-a-uuid", DeviceUserID: "1"})
	assert.Error(t, v.Struct(form), "nested student id validated")

	form.Enrollments[0].StudentID = uuid.New().String()
	assert.NoError(t, v.Struct(form))
}
