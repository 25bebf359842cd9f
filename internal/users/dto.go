package users

// CreateForm is the payload for provisioning an account. Role must be one of
// the known roles; the service rejects anything outside the closed set.
type CreateForm struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Role     string `json:"role" validate:"required"`
	TenantID string `json:"tenant_id" validate:"omitempty,uuid4"`
}

// UpdateForm carries partial account changes. Nil fields are left untouched.
type UpdateForm struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Role     *string `json:"role"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}
