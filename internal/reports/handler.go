package reports

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

type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *PDFClient
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, pdf *PDFClient, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf, rbac: rbacMW}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermReportsRead))
		r.Get("/daily", h.daily)
		r.Get("/daily/pdf", h.dailyPDF)
	})
}

// resolveScope parses the date and tenant query parameters. Tenant members
// always report on their own tenant; tenant_id is for super admins. A false
// return means the error response has already been written.
func (h *Handler) resolveScope(w http.ResponseWriter, r *http.Request) (*shared.Principal, uuid.UUID, time.Time, bool) {
	actor := shared.PrincipalFromContext(r.Context())

	day := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return nil, uuid.Nil, time.Time{}, false
		}
		day = parsed
	}

	var tenantID uuid.UUID
	switch {
	case actor != nil && !actor.IsSuperAdmin():
		if actor.TenantID == nil {
			httpx.RespondError(w, shared.ErrForbidden)
			return nil, uuid.Nil, time.Time{}, false
		}
		tenantID = *actor.TenantID
	default:
		v := r.URL.Query().Get("tenant_id")
		parsed, err := uuid.Parse(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "tenant_id required")
			return nil, uuid.Nil, time.Time{}, false
		}
		tenantID = parsed
	}
	return actor, tenantID, day, true
}

// daily serves GET /reports/daily?date=YYYY-MM-DD[&tenant_id=...].
func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	actor, tenantID, day, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Daily(r.Context(), actor, tenantID, day)
	if err != nil {
		h.logger.Error("daily report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// dailyPDF serves the same summary as a printable PDF rendered via Gotenberg.
func (h *Handler) dailyPDF(w http.ResponseWriter, r *http.Request) {
	actor, tenantID, day, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Daily(r.Context(), actor, tenantID, day)
	if err != nil {
		h.logger.Error("daily report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Rendering Unavailable", "no PDF renderer configured")
		return
	}
	html, err := RenderDailySummaryHTML(summary, time.Now())
	if err != nil {
		h.logger.Error("render daily report html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render daily report pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "PDF Rendering Failed", "could not render the report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=daily-summary-"+day.Format("2006-01-02")+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
