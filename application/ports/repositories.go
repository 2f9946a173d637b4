// Package ports declares the interfaces between the application services and
// the infrastructure that backs them. Services depend on these, never on the
// DynamoDB, Redis or EventBridge packages directly.
package ports

import (
	"context"

	"gatherly-backend/domain/entities"
)

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	Save(ctx context.Context, p *entities.Profile) error
	FindByID(ctx context.Context, userID string) (*entities.Profile, error)
}

// ExperienceRepository persists experiences.
type ExperienceRepository interface {
	Save(ctx context.Context, e *entities.Experience) error
	FindByID(ctx context.Context, id string) (*entities.Experience, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*entities.Experience, error)
	FindByVenue(ctx context.Context, venueID string) ([]*entities.Experience, error)
}

// GroupRepository persists groups.
type GroupRepository interface {
	Save(ctx context.Context, g *entities.Group) error
	FindByID(ctx context.Context, id string) (*entities.Group, error)
	FindByMember(ctx context.Context, userID string) ([]*entities.Group, error)
	HardDelete(ctx context.Context, id string) error
}

// VenueRepository persists venue locations.
type VenueRepository interface {
	Save(ctx context.Context, v *entities.VenueLocation) error
	FindByID(ctx context.Context, id string) (*entities.VenueLocation, error)
	FindByCell(ctx context.Context, cell string) ([]*entities.VenueLocation, error)
}

// GroupExperienceRepository persists group↔experience links.
type GroupExperienceRepository interface {
	Link(ctx context.Context, link *entities.GroupExperienceLink) error
	Unlink(ctx context.Context, groupID, experienceID string) error
	FindByGroup(ctx context.Context, groupID string) ([]*entities.GroupExperienceLink, error)
	FindByExperience(ctx context.Context, experienceID string) ([]*entities.GroupExperienceLink, error)
}

// UserExperienceRepository persists attendance rows.
type UserExperienceRepository interface {
	Upsert(ctx context.Context, a *entities.Attendance) error
	FindOne(ctx context.Context, userID, experienceID string) (*entities.Attendance, error)
	FindByUser(ctx context.Context, userID string) ([]*entities.Attendance, error)
	FindByExperience(ctx context.Context, experienceID string) ([]*entities.Attendance, error)
}
