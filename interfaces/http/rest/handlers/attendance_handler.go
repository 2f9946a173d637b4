package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gatherly-backend/application/services"
	"gatherly-backend/domain/entities"
	"gatherly-backend/pkg/auth"
	"gatherly-backend/pkg/common"
	"gatherly-backend/pkg/utils"
)

// AttendanceHandler serves the attendance endpoints: interest and payment
// signals plus the per-experience attendee listings and the caller's
// timeline views.
type AttendanceHandler struct {
	attendance *services.AttendanceService
	timeline   *services.TimelineService
	logger     *zap.Logger
}

// NewAttendanceHandler creates an attendance handler.
func NewAttendanceHandler(attendance *services.AttendanceService, timeline *services.TimelineService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, timeline: timeline, logger: logger}
}

type markInterestRequest struct {
	Interested *bool `json:"interested" validate:"required"`
}

type markPaymentRequest struct {
	Reference string  `json:"reference" validate:"required,max=200"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Currency  string  `json:"currency" validate:"omitempty,len=3"`
	Method    string  `json:"method" validate:"omitempty,max=100"`
	PaidAt    string  `json:"paidAt" validate:"omitempty,max=64"`
}

// MarkInterest records whether the caller is interested in an experience.
func (h *AttendanceHandler) MarkInterest(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req markInterestRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	a, err := h.attendance.MarkInterest(r.Context(), caller.UserID, chi.URLParam(r, "experienceID"), *req.Interested)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, a)
}

// MarkPayment records a completed payment for an experience.
func (h *AttendanceHandler) MarkPayment(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req markPaymentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	a, err := h.attendance.MarkPayment(r.Context(), caller.UserID, chi.URLParam(r, "experienceID"), &entities.PaymentDetails{
		Reference: req.Reference,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		PaidAt:    req.PaidAt,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, a)
}

// ListInterested returns the users interested in an experience.
func (h *AttendanceHandler) ListInterested(w http.ResponseWriter, r *http.Request) {
	users, err := h.attendance.FindInterestedUsers(r.Context(), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}

// ListAttendees returns the users attending an experience.
func (h *AttendanceHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	users, err := h.attendance.FindAttendedUsers(r.Context(), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}

// Timeline returns the caller's experiences filtered by ?view= (interested,
// past or upcoming; past when absent). The parameter may be repeated or
// comma-separated to union several views.
func (h *AttendanceHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	entries, err := h.timeline.FilterExperiences(r.Context(), caller.UserID, strings.Join(r.URL.Query()["view"], ","))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, entries)
}
