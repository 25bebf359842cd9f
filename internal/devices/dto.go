package devices

// RegisterForm registers a device under a branch. ipAddress allows 45
// characters so a full IPv6 textual form fits.
type RegisterForm struct {
	BranchID       string `json:"branchId" validate:"required,uuid4"`
	SerialNumber   string `json:"serialNumber" validate:"required,max=100"`
	Name           string `json:"name" validate:"required,max=255"`
	Model          string `json:"model" validate:"omitempty,max=100"`
	Location       string `json:"location" validate:"omitempty,max=255"`
	IPAddress      string `json:"ipAddress" validate:"omitempty,max=45,ip"`
	TimezoneOffset *int   `json:"timezoneOffset" validate:"omitempty,min=-840,max=840"`
}

// UpdateForm mirrors RegisterForm with every field optional.
type UpdateForm struct {
	Name           *string `json:"name" validate:"omitempty,max=255"`
	Model          *string `json:"model" validate:"omitempty,max=100"`
	Location       *string `json:"location" validate:"omitempty,max=255"`
	IPAddress      *string `json:"ipAddress" validate:"omitempty,max=45,ip"`
	TimezoneOffset *int    `json:"timezoneOffset" validate:"omitempty,min=-840,max=840"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// EnrollForm maps one student to a device-local user id.
type EnrollForm struct {
	DeviceID     string `json:"deviceId" validate:"required,uuid4"`
	StudentID    string `json:"studentId" validate:"required,uuid4"`
	DeviceUserID string `json:"deviceUserId" validate:"required,max=50"`
}

// BulkEnrollForm enrolls several students on one device in a single call.
type BulkEnrollForm struct {
	DeviceID    string `json:"deviceId" validate:"required,uuid4"`
	Enrollments []struct {
		StudentID    string `json:"studentId" validate:"required,uuid4"`
		DeviceUserID string `json:"deviceUserId" validate:"required,max=50"`
	} `json:"enrollments" validate:"required,min=1,dive"`
}
