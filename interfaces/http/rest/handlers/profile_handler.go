// Package handlers implements the REST endpoints over the application
// services. Handlers parse and validate input, resolve the caller from the
// request context and translate service errors onto the response envelope.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gatherly-backend/application/services"
	"gatherly-backend/domain/entities"
	"gatherly-backend/pkg/auth"
	"gatherly-backend/pkg/common"
	"gatherly-backend/pkg/utils"
)

// maxBodyBytes caps request bodies. Nothing this API accepts is large.
const maxBodyBytes = 1 << 20

// ProfileHandler serves the profile endpoints.
type ProfileHandler struct {
	profiles *services.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profiles *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

type saveProfileRequest struct {
	FullName  string   `json:"fullName" validate:"omitempty,max=200"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Bio       string   `json:"bio" validate:"omitempty,max=2000"`
	PhotoURL  string   `json:"photoUrl" validate:"omitempty,max=2048"`
	Interests []string `json:"interests" validate:"omitempty,max=50,dive,min=1,max=100"`
}

// SaveProfile creates or updates the caller's profile.
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req saveProfileRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	p, err := h.profiles.SaveProfile(r.Context(), caller.UserID, entities.Profile{
		UserID:    caller.UserID,
		FullName:  req.FullName,
		Email:     req.Email,
		Bio:       req.Bio,
		PhotoURL:  req.PhotoURL,
		Interests: req.Interests,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, p)
}

// GetProfile returns a user's profile by path id, or the caller's own when
// the id is "me".
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" || userID == "me" {
		userID = caller.UserID
	}

	p, err := h.profiles.FindProfile(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, p)
}

// DeleteProfile soft-deletes the caller's profile.
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), caller.UserID, caller.UserID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
