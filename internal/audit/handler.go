package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/rbac"
	"github.com/attendly/attendly/internal/shared"
)

// Handler exposes the audit trail to administrators. Tenant admins only see
// their own tenant's entries.
type Handler struct {
	logger *slog.Logger
	repo   Repository
	rbac   rbac.Middleware
}

func NewHandler(logger *slog.Logger, repo Repository, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbacMW}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermAuditRead))
		r.Get("/", h.list)
	})
}

type listResponse struct {
	Entries    []Entry           `json:"entries"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := shared.PrincipalFromContext(r.Context())
	filters := shared.FiltersFromRequest(r)
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.To = &t
		}
	}

	var tenantID *uuid.UUID
	if actor != nil && !actor.IsSuperAdmin() {
		tenantID = actor.TenantID
	} else if v := q.Get("tenant_id"); v != "" {
		if parsed, err := uuid.Parse(v); err == nil {
			tenantID = &parsed
		}
	}

	entries, total, err := h.repo.List(r.Context(), tenantID, filters)
	if err != nil {
		h.logger.Error("list audit entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Entries:    entries,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}
