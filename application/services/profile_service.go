package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	"gatherly-backend/domain/events"
	apperrors "gatherly-backend/pkg/errors"
)

// ProfileService manages user profiles. Users may only write their own
// profile; reads are open to any authenticated caller.
type ProfileService struct {
	profiles ports.ProfileRepository
	cache    ports.Cache
	cacheTTL time.Duration
	bus      ports.EventBus
	logger   *zap.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(profiles ports.ProfileRepository, cache ports.Cache, cacheTTL time.Duration, bus ports.EventBus, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
		bus:      bus,
		logger:   logger,
	}
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}

// SaveProfile creates or partially updates the caller's profile. Incoming
// zero-value fields never clear stored values; updates merge onto the
// freshly read row.
func (s *ProfileService) SaveProfile(ctx context.Context, callerID string, in entities.Profile) (*entities.Profile, error) {
	if in.UserID == "" {
		in.UserID = callerID
	}
	if in.UserID != callerID {
		return nil, apperrors.NewForbiddenError("profiles can only be modified by their owner")
	}

	current, err := s.profiles.FindByID(ctx, in.UserID)
	switch {
	case err == nil && !current.IsDeleted():
		current.Merge(in)
	case err == nil || apperrors.IsNotFound(err):
		// New profile, or resurrecting a soft-deleted one.
		current = &in
		if current.Status == "" {
			current.Status = entities.StatusActive
		}
	default:
		return nil, err
	}

	if err := s.profiles.Save(ctx, current); err != nil {
		return nil, err
	}

	s.invalidate(ctx, current.UserID)
	publish(ctx, s.bus, s.logger, events.New(events.TypeProfileSaved, current.UserID, callerID))
	return current, nil
}

// FindProfile returns a user's profile, read through the cache. Soft-deleted
// profiles are not found.
func (s *ProfileService) FindProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	if cached, ok := s.cacheGet(ctx, userID); ok {
		return cached, nil
	}

	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, apperrors.NewNotFoundError("profile not found")
	}

	s.cacheSet(ctx, p)
	return p, nil
}

// DeleteProfile soft-deletes the caller's profile.
func (s *ProfileService) DeleteProfile(ctx context.Context, callerID, userID string) error {
	if userID != callerID {
		return apperrors.NewForbiddenError("profiles can only be deleted by their owner")
	}

	current, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if current.IsDeleted() {
		return apperrors.NewNotFoundError("profile not found")
	}

	current.Status = entities.StatusDeleted
	if err := s.profiles.Save(ctx, current); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	publish(ctx, s.bus, s.logger, events.New(events.TypeProfileSaved, userID, callerID))
	return nil
}

func (s *ProfileService) cacheGet(ctx context.Context, userID string) (*entities.Profile, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, hit, err := s.cache.Get(ctx, profileCacheKey(userID))
	if err != nil {
		s.logger.Warn("Profile cache read failed", zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var p entities.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("Profile cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (s *ProfileService) cacheSet(ctx context.Context, p *entities.Profile) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCacheKey(p.UserID), data, s.cacheTTL); err != nil {
		s.logger.Warn("Profile cache write failed", zap.Error(err))
	}
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileCacheKey(userID)); err != nil {
		s.logger.Warn("Profile cache invalidation failed", zap.Error(err))
	}
}
