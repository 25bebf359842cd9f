package rbac

import (
	"log/slog"
	"net/http"

	"github.com/attendly/attendly/internal/platform/httpx"
	"github.com/attendly/attendly/internal/shared"
)

// Middleware wires authorization checks for HTTP handlers. Handlers declare
// the permissions they require; enforcement runs after identity resolution
// and before any business logic.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny ensures the current principal holds at least one of the required
// permissions.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			for _, p := range perms {
				if HasPermission(principal.Role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(w, r, principal)
		})
	}
}

// RequireAll ensures the current principal holds every required permission.
func (m Middleware) RequireAll(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			for _, p := range perms {
				if !HasPermission(principal.Role, p) {
					m.deny(w, r, principal)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, principal *shared.Principal) {
	if m.Logger != nil {
		m.Logger.Warn("permission denied",
			slog.String("role", principal.Role),
			slog.String("path", r.URL.Path))
	}
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
}
