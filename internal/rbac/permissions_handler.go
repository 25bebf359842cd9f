package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/attendly/internal/platform/httpx"
)

// PermissionsHandler exposes the permission universe and role grants.
type PermissionsHandler struct {
	logger *slog.Logger
	rbac   Middleware
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(PermPermissionsRead))
		r.Get("/", h.list)
	})
}

type permissionsResponse struct {
	Permissions []Permission            `json:"permissions"`
	Roles       map[string][]Permission `json:"roles"`
}

func (h *PermissionsHandler) list(w http.ResponseWriter, r *http.Request) {
	roles := make(map[string][]Permission)
	for _, role := range Roles() {
		roles[role] = RolePermissions(role)
	}
	httpx.JSON(w, http.StatusOK, permissionsResponse{
		Permissions: AllPermissions(),
		Roles:       roles,
	})
}
