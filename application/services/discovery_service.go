package services

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/geo"
)

// NearbyExperience is a proximity search hit: the experience, the venue it
// was found through and the great-circle distance from the query point.
type NearbyExperience struct {
	Experience *entities.Experience `json:"experience"`
	VenueID    string               `json:"venueId"`
	DistanceKm float64              `json:"distanceKm"`
}

// DiscoveryService runs the two-phase proximity search: geohash cells narrow
// the candidate venues, exact distance filters and ranks the experiences
// held at them.
type DiscoveryService struct {
	venues      ports.VenueRepository
	experiences ports.ExperienceRepository
	logger      *zap.Logger
}

// NewDiscoveryService creates a discovery service.
func NewDiscoveryService(venues ports.VenueRepository, experiences ports.ExperienceRepository, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		venues:      venues,
		experiences: experiences,
		logger:      logger,
	}
}

// FindNearbyExperiences returns the live experiences around the point,
// nearest first. A zero radius means no radius cut: every venue in the
// neighboring cells qualifies. A negative radius is invalid. Distances are
// great-circle from the venue, rounded to two decimals.
func (s *DiscoveryService) FindNearbyExperiences(ctx context.Context, lat, lon, radiusKm float64) ([]NearbyExperience, error) {
	if !geo.ValidCoordinate(lat, lon) {
		return nil, apperrors.NewValidationError("coordinates are out of range")
	}
	if radiusKm < 0 {
		return nil, apperrors.NewValidationError("radius must not be negative")
	}

	var hits []NearbyExperience
	seen := make(map[string]bool)

	for _, cell := range geo.Neighbors(lat, lon) {
		venues, err := s.venues.FindByCell(ctx, cell)
		if err != nil {
			return nil, err
		}

		for _, v := range venues {
			distance := geo.DistanceKm(lat, lon, v.Latitude, v.Longitude)
			if radiusKm > 0 && distance > radiusKm {
				continue
			}

			experiences, err := s.experiences.FindByVenue(ctx, v.VenueID)
			if err != nil {
				return nil, err
			}

			for _, e := range experiences {
				if e.IsDeleted() || seen[e.ID] {
					continue
				}
				seen[e.ID] = true
				hits = append(hits, NearbyExperience{
					Experience: e,
					VenueID:    v.VenueID,
					DistanceKm: math.Round(distance*100) / 100,
				})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].DistanceKm < hits[j].DistanceKm
	})
	return hits, nil
}
