package tenants

// TenantForm carries create/update payloads.
type TenantForm struct {
	Code string `json:"code" validate:"required,max=20,alphanum"`
	Name string `json:"name" validate:"required,max=255"`
}

// StatusForm carries status transitions.
type StatusForm struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}
