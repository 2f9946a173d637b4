package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gatherly-backend/application/services"
	"gatherly-backend/domain/entities"
	"gatherly-backend/pkg/auth"
	"gatherly-backend/pkg/common"
	"gatherly-backend/pkg/utils"
)

// ExperienceHandler serves the experience endpoints, including proximity
// search and the groups an experience is linked into.
type ExperienceHandler struct {
	experiences *services.ExperienceService
	groups      *services.GroupService
	discovery   *services.DiscoveryService
	logger      *zap.Logger
}

// NewExperienceHandler creates an experience handler.
func NewExperienceHandler(
	experiences *services.ExperienceService,
	groups *services.GroupService,
	discovery *services.DiscoveryService,
	logger *zap.Logger,
) *ExperienceHandler {
	return &ExperienceHandler{
		experiences: experiences,
		groups:      groups,
		discovery:   discovery,
		logger:      logger,
	}
}

type saveExperienceRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=300"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Date        string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string   `json:"startTime" validate:"omitempty,datetime=15:04"`
	VenueID     string   `json:"venueId" validate:"omitempty,max=200"`
	VenueName   string   `json:"venueName" validate:"omitempty,max=300"`
	Address     string   `json:"address" validate:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int     `json:"capacity" validate:"omitempty,min=1"`
	Status      string   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

func (req *saveExperienceRequest) toEntity(id string) entities.Experience {
	return entities.Experience{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		VenueID:     req.VenueID,
		VenueName:   req.VenueName,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Status:      req.Status,
	}
}

// CreateExperience creates an experience owned by the caller.
func (h *ExperienceHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req saveExperienceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.Title == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "title is required")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	e, err := h.experiences.SaveExperience(r.Context(), caller.UserID, req.toEntity(""))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, e)
}

// UpdateExperience partially updates an experience. Creator only.
func (h *ExperienceHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req saveExperienceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	e, err := h.experiences.SaveExperience(r.Context(), caller.UserID, req.toEntity(chi.URLParam(r, "experienceID")))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, e)
}

// GetExperience returns an experience by id.
func (h *ExperienceHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	e, err := h.experiences.FindExperience(r.Context(), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, e)
}

// ListExperiences returns experiences by creator: the ?creatorId= user, or
// the caller when absent.
func (h *ExperienceHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	creatorID := r.URL.Query().Get("creatorId")
	if creatorID == "" {
		creatorID = caller.UserID
	}

	list, err := h.experiences.FindExperiencesByCreator(r.Context(), creatorID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, list)
}

// DeleteExperience soft-deletes an experience. Creator only.
func (h *ExperienceHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.experiences.DeleteExperience(r.Context(), caller.UserID, chi.URLParam(r, "experienceID")); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetExperienceGroups returns the groups an experience is linked into.
func (h *ExperienceHandler) GetExperienceGroups(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.FindExperienceGroups(r.Context(), chi.URLParam(r, "experienceID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Nearby returns the experiences within a radius of a point, nearest first.
func (h *ExperienceHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "lon must be a number")
		return
	}

	var radius float64
	if raw := q.Get("radiusKm"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "radiusKm must be a number")
			return
		}
	}

	hits, err := h.discovery.FindNearbyExperiences(r.Context(), lat, lon, radius)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, hits)
}
