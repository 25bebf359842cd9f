package attendance

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/attendly/attendly/internal/observability"
	"github.com/attendly/attendly/internal/platform/httpx"
)

// KioskHandler serves the terminal-facing endpoints. Terminals authenticate
// with a shared secret header, not a user token.
type KioskHandler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	secret    string
	validator *validator.Validate
}

func NewKioskHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, secret string) *KioskHandler {
	return &KioskHandler{logger: logger, service: service, metrics: metrics, secret: secret, validator: validator.New()}
}

func (h *KioskHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireSecret)
		r.Post("/checkin", h.checkin)
		r.Post("/checkout", h.checkout)
	})
}

func (h *KioskHandler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-Kiosk-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid kiosk secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type kioskRequest struct {
	StudentCode string `json:"student_code" validate:"required,max=50"`
	PIN         string `json:"pin" validate:"required,numeric,min=4,max=6"`
	BranchID    string `json:"branch_id" validate:"required,uuid4"`
}

type kioskStudent struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	Code      string `json:"student_code"`
}

type kioskData struct {
	AttendanceID    string       `json:"attendance_id"`
	Student         kioskStudent `json:"student"`
	CheckinTime     time.Time    `json:"checkin_time"`
	CheckoutTime    *time.Time   `json:"checkout_time,omitempty"`
	DurationMinutes *int         `json:"duration_minutes,omitempty"`
	BranchName      string       `json:"branch_name"`
}

type kioskErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type kioskResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   *kioskErrorBody `json:"error,omitempty"`
	Data    *kioskData      `json:"data,omitempty"`
}

func (h *KioskHandler) checkin(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Checked in", h.service.CheckIn)
}

func (h *KioskHandler) checkout(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Checked out", h.service.CheckOut)
}

func (h *KioskHandler) handle(w http.ResponseWriter, r *http.Request, message string, op func(ctx context.Context, branchID uuid.UUID, studentCode, pin string) (CheckinResult, error)) {
	var req kioskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, kioskResponse{Success: false, Error: &kioskErrorBody{Code: "VALIDATION_ERROR", Message: "malformed request body"}})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, kioskResponse{Success: false, Error: &kioskErrorBody{Code: "VALIDATION_ERROR", Message: err.Error()}})
		return
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, kioskResponse{Success: false, Error: &kioskErrorBody{Code: "VALIDATION_ERROR", Message: "invalid branch_id"}})
		return
	}

	result, err := op(r.Context(), branchID, req.StudentCode, req.PIN)
	if err != nil {
		var kerr *KioskError
		if errors.As(err, &kerr) {
			if h.metrics != nil {
				h.metrics.RecordKioskFailure(kerr.Code)
			}
			httpx.JSON(w, kioskStatus(kerr.Code), kioskResponse{Success: false, Error: &kioskErrorBody{Code: kerr.Code, Message: kerr.Message}})
			return
		}
		h.logger.Error("kiosk request", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, kioskResponse{Success: false, Error: &kioskErrorBody{Code: "INTERNAL", Message: "internal error"}})
		return
	}

	event := result.Event
	httpx.JSON(w, http.StatusOK, kioskResponse{
		Success: true,
		Message: message,
		Data: &kioskData{
			AttendanceID: event.ID.String(),
			Student: kioskStudent{
				StudentID: event.StudentID.String(),
				FullName:  event.StudentName,
				Code:      event.StudentCode,
			},
			CheckinTime:     event.CheckinTime,
			CheckoutTime:    event.CheckoutTime,
			DurationMinutes: event.DurationMinutes,
			BranchName:      result.BranchName,
		},
	})
}

func kioskStatus(code string) int {
	switch code {
	case CodeStudentNotFound, CodeBranchNotFound:
		return http.StatusNotFound
	case CodeInvalidPIN:
		return http.StatusUnauthorized
	case CodeAlreadyCheckedIn, CodeNotCheckedIn:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
