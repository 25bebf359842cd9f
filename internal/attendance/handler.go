package attendance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/rbac"
	"github.com/attendly/attendly/internal/shared"
)

// Handler serves the staff-facing attendance endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	rbac      rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), rbac: rbacMW}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermAttendanceRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermAttendanceCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermAttendanceUpdate))
		r.Post("/{id}/close", h.forceClose)
	})
}

type manualCheckinForm struct {
	StudentID   string `json:"student_id" validate:"required,uuid4"`
	CheckinTime string `json:"checkin_time" validate:"omitempty"`
}

// create opens a session for a student without PIN verification. Staff use
// this when a kiosk is down or a student forgot to check in.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form manualCheckinForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	studentID, err := uuid.Parse(form.StudentID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid student_id")
		return
	}
	var at *time.Time
	if form.CheckinTime != "" {
		parsed, err := time.Parse(time.RFC3339, form.CheckinTime)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "checkin_time must be RFC3339")
			return
		}
		at = &parsed
	}
	event, err := h.service.ManualCheckIn(r.Context(), shared.PrincipalFromContext(r.Context()), studentID, at)
	if err != nil {
		h.logger.Error("manual check-in", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, event)
}

type listResponse struct {
	Events     []Event           `json:"events"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	q := r.URL.Query()
	if v := q.Get("tenant_id"); v != "" {
		filters.TenantID = &v
	}
	if v := q.Get("branch_id"); v != "" {
		filters.BranchID = &v
	}
	if v := q.Get("student_id"); v != "" {
		filters.StudentID = &v
	}
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

	events, total, err := h.service.List(r.Context(), shared.PrincipalFromContext(r.Context()), filters)
	if err != nil {
		h.logger.Error("list attendance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Events:     events,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid attendance id")
		return
	}
	event, err := h.service.Get(r.Context(), shared.PrincipalFromContext(r.Context()), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, event)
}

func (h *Handler) forceClose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid attendance id")
		return
	}
	event, err := h.service.ForceClose(r.Context(), shared.PrincipalFromContext(r.Context()), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, event)
}
