package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/attendly/internal/attendance"
	"github.com/attendly/attendly/internal/audit"
	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/branches"
	"github.com/attendly/attendly/internal/devices"
	"github.com/attendly/attendly/internal/observability"
	"github.com/attendly/attendly/internal/rbac"
	"github.com/attendly/attendly/internal/reports"
	"github.com/attendly/attendly/internal/students"
	"github.com/attendly/attendly/internal/teachers"
	"github.com/attendly/attendly/internal/tenants"
	"github.com/attendly/attendly/internal/users"
	"github.com/attendly/attendly/jobs"
)

// RouterParams collects every handler mounted on the API router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthMiddleware auth.Middleware

	AuthHandler        *auth.Handler
	TenantsHandler     *tenants.Handler
	BranchesHandler    *branches.Handler
	StudentsHandler    *students.Handler
	TeachersHandler    *teachers.Handler
	UsersHandler       *users.Handler
	DevicesHandler     *devices.Handler
	AttendanceHandler  *attendance.Handler
	KioskHandler       *attendance.KioskHandler
	ReportsHandler     *reports.Handler
	AuditHandler       *audit.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter assembles the HTTP API. Kiosk routes sit outside the bearer-auth
// group; everything else under /api requires a resolved principal.
func NewRouter(params RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.KioskHandler != nil {
		r.Route("/kiosk", params.KioskHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)

			if params.AuthHandler != nil {
				params.AuthHandler.MountProtectedRoutes(r)
			}
			if params.PermissionsHandler != nil {
				r.Route("/permissions", params.PermissionsHandler.MountRoutes)
			}
			if params.TenantsHandler != nil {
				r.Route("/tenants", params.TenantsHandler.MountRoutes)
			}
			if params.BranchesHandler != nil {
				r.Route("/branches", params.BranchesHandler.MountRoutes)
			}
			if params.StudentsHandler != nil {
				r.Route("/students", params.StudentsHandler.MountRoutes)
			}
			if params.TeachersHandler != nil {
				r.Route("/teachers", params.TeachersHandler.MountRoutes)
			}
			if params.UsersHandler != nil {
				r.Route("/users", params.UsersHandler.MountRoutes)
			}
			if params.DevicesHandler != nil {
				r.Route("/devices", params.DevicesHandler.MountRoutes)
			}
			if params.AttendanceHandler != nil {
				r.Route("/attendance", params.AttendanceHandler.MountRoutes)
			}
			if params.ReportsHandler != nil {
				r.Route("/reports", params.ReportsHandler.MountRoutes)
			}
			if params.AuditHandler != nil {
				r.Route("/audit", params.AuditHandler.MountRoutes)
			}
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountAdminRoutes)
			}
		})
	})

	return r
}
