package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	"gatherly-backend/domain/events"
	apperrors "gatherly-backend/pkg/errors"
)

// ExperienceService manages experiences. Only the creator may update or
// delete one.
type ExperienceService struct {
	experiences ports.ExperienceRepository
	venues      ports.VenueRepository
	cache       ports.Cache
	cacheTTL    time.Duration
	bus         ports.EventBus
	logger      *zap.Logger
}

// NewExperienceService creates an experience service.
func NewExperienceService(
	experiences ports.ExperienceRepository,
	venues ports.VenueRepository,
	cache ports.Cache,
	cacheTTL time.Duration,
	bus ports.EventBus,
	logger *zap.Logger,
) *ExperienceService {
	return &ExperienceService{
		experiences: experiences,
		venues:      venues,
		cache:       cache,
		cacheTTL:    cacheTTL,
		bus:         bus,
		logger:      logger,
	}
}

func experienceCacheKey(id string) string {
	return "experience:" + id
}

// SaveExperience creates or partially updates an experience. Updates merge
// onto the freshly read row and are restricted to the creator. When the
// experience carries coordinates, the venue row is upserted best-effort so
// proximity search can find it; a venue write failure never fails the save.
func (s *ExperienceService) SaveExperience(ctx context.Context, callerID string, in entities.Experience) (*entities.Experience, error) {
	var current *entities.Experience

	if in.ID == "" {
		in.ID = uuid.NewString()
		in.CreatorID = callerID
		if in.Status == "" {
			in.Status = entities.ExperiencePublished
		}
		current = &in
	} else {
		existing, err := s.experiences.FindByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if existing.IsDeleted() {
			return nil, apperrors.NewNotFoundError("experience not found")
		}
		if existing.CreatorID != callerID {
			return nil, apperrors.NewForbiddenError("experiences can only be modified by their creator")
		}
		existing.Merge(in)
		current = existing
	}

	if err := s.experiences.Save(ctx, current); err != nil {
		return nil, err
	}

	s.upsertVenue(ctx, current)
	s.invalidate(ctx, current.ID)
	publish(ctx, s.bus, s.logger, events.New(events.TypeExperienceSaved, current.ID, callerID))
	return current, nil
}

// FindExperience returns an experience by id, read through the cache.
// Soft-deleted experiences are not found.
func (s *ExperienceService) FindExperience(ctx context.Context, id string) (*entities.Experience, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("experience id is required")
	}

	if cached, ok := s.cacheGet(ctx, id); ok {
		return cached, nil
	}

	e, err := s.experiences.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.IsDeleted() {
		return nil, apperrors.NewNotFoundError("experience not found")
	}

	s.cacheSet(ctx, e)
	return e, nil
}

// FindExperiencesByCreator returns the live experiences a user created.
func (s *ExperienceService) FindExperiencesByCreator(ctx context.Context, creatorID string) ([]*entities.Experience, error) {
	all, err := s.experiences.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Experience, 0, len(all))
	for _, e := range all {
		if e.IsDeleted() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// DeleteExperience soft-deletes an experience. Creator only.
func (s *ExperienceService) DeleteExperience(ctx context.Context, callerID, id string) error {
	current, err := s.experiences.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsDeleted() {
		return apperrors.NewNotFoundError("experience not found")
	}
	if current.CreatorID != callerID {
		return apperrors.NewForbiddenError("experiences can only be deleted by their creator")
	}

	current.Status = entities.ExperienceDeleted
	if err := s.experiences.Save(ctx, current); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	publish(ctx, s.bus, s.logger, events.New(events.TypeExperienceDeleted, id, callerID))
	return nil
}

// upsertVenue keeps the venue row in step with the experience location. The
// venue id defaults to the experience id when the caller supplied none.
func (s *ExperienceService) upsertVenue(ctx context.Context, e *entities.Experience) {
	if !e.HasCoordinates() {
		return
	}

	venueID := e.VenueID
	if venueID == "" {
		venueID = e.ID
	}

	venue := &entities.VenueLocation{
		VenueID:   venueID,
		Name:      e.VenueName,
		Latitude:  *e.Latitude,
		Longitude: *e.Longitude,
	}
	if err := s.venues.Save(ctx, venue); err != nil {
		s.logger.Warn("Venue upsert failed",
			zap.String("experienceId", e.ID),
			zap.String("venueId", venueID),
			zap.Error(err),
		)
	}
}

func (s *ExperienceService) cacheGet(ctx context.Context, id string) (*entities.Experience, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, hit, err := s.cache.Get(ctx, experienceCacheKey(id))
	if err != nil {
		s.logger.Warn("Experience cache read failed", zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var e entities.Experience
	if err := json.Unmarshal(data, &e); err != nil {
		s.logger.Warn("Experience cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &e, true
}

func (s *ExperienceService) cacheSet(ctx context.Context, e *entities.Experience) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, experienceCacheKey(e.ID), data, s.cacheTTL); err != nil {
		s.logger.Warn("Experience cache write failed", zap.Error(err))
	}
}

func (s *ExperienceService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, experienceCacheKey(id)); err != nil {
		s.logger.Warn("Experience cache invalidation failed", zap.Error(err))
	}
}
