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

// GroupHandler serves the group endpoints, including membership and
// experience links.
type GroupHandler struct {
	groups *services.GroupService
	logger *zap.Logger
}

// NewGroupHandler creates a group handler.
func NewGroupHandler(groups *services.GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

type saveGroupRequest struct {
	Name        string   `json:"name" validate:"omitempty,max=300"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	PhotoURL    string   `json:"photoUrl" validate:"omitempty,max=2048"`
	Members     []string `json:"members" validate:"omitempty,max=200,dive,min=1,max=200"`
}

type memberRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,max=200,dive,min=1,max=200"`
}

// CreateGroup creates a group. The caller joins automatically and becomes
// the owner.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req saveGroupRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.Name == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	g, err := h.groups.SaveGroup(r.Context(), caller.UserID, entities.Group{
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Members:     req.Members,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, g)
}

// UpdateGroup partially updates a group. Members only; membership itself is
// changed through the member endpoints.
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req saveGroupRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	g, err := h.groups.SaveGroup(r.Context(), caller.UserID, entities.Group{
		ID:          chi.URLParam(r, "groupID"),
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, g)
}

// GetGroup returns a group by id.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.FindGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, g)
}

// ListGroups returns the caller's groups.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	list, err := h.groups.FindGroupsByMember(r.Context(), caller.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, list)
}

// DeleteGroup deletes a group. Owner only; ?hard=true removes the rows
// instead of flipping the status.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	hard := r.URL.Query().Get("hard") == "true"
	if err := h.groups.DeleteGroup(r.Context(), caller.UserID, chi.URLParam(r, "groupID"), hard); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddMembers adds users to a group.
func (h *GroupHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req memberRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	g, err := h.groups.AddGroupMembers(r.Context(), caller.UserID, chi.URLParam(r, "groupID"), req.UserIDs)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, g)
}

// RemoveMembers removes users from a group.
func (h *GroupHandler) RemoveMembers(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req memberRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	g, err := h.groups.RemoveGroupMembers(r.Context(), caller.UserID, chi.URLParam(r, "groupID"), req.UserIDs)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, g)
}

// LinkExperience attaches an experience to a group.
func (h *GroupHandler) LinkExperience(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	err = h.groups.LinkGroupExperience(r.Context(), caller.UserID,
		chi.URLParam(r, "groupID"), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

// UnlinkExperience detaches an experience from a group.
func (h *GroupHandler) UnlinkExperience(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	err = h.groups.UnlinkGroupExperience(r.Context(), caller.UserID,
		chi.URLParam(r, "groupID"), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

// ListGroupExperiences returns the experiences linked to a group.
func (h *GroupHandler) ListGroupExperiences(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.FindGroupExperiences(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}
