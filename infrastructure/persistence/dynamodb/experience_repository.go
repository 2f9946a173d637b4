package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

// experienceRecord is the physical shape of an experience row. The relatedId
// attribute points at the venue so the related index can answer "experiences
// at this venue".
type experienceRecord struct {
	PK          string    `dynamodbav:"pk"`
	SK          string    `dynamodbav:"sk"`
	EntityType  string    `dynamodbav:"entityType"`
	RelatedID   string    `dynamodbav:"relatedId,omitempty"`
	CreatorID   string    `dynamodbav:"creatorId,omitempty"`
	Title       string    `dynamodbav:"title,omitempty"`
	Description string    `dynamodbav:"description,omitempty"`
	Date        string    `dynamodbav:"date,omitempty"`
	StartTime   string    `dynamodbav:"startTime,omitempty"`
	VenueID     string    `dynamodbav:"venueId,omitempty"`
	VenueName   string    `dynamodbav:"venueName,omitempty"`
	Address     string    `dynamodbav:"address,omitempty"`
	Latitude    *float64  `dynamodbav:"latitude,omitempty"`
	Longitude   *float64  `dynamodbav:"longitude,omitempty"`
	Price       *float64  `dynamodbav:"price,omitempty"`
	Capacity    *int      `dynamodbav:"capacity,omitempty"`
	Status      string    `dynamodbav:"status,omitempty"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt"`
}

// ExperienceRepository persists experiences.
type ExperienceRepository struct {
	store  *TableStore
	router *Router
	logger *zap.Logger
}

// NewExperienceRepository creates an experience repository.
func NewExperienceRepository(store *TableStore, router *Router, logger *zap.Logger) *ExperienceRepository {
	return &ExperienceRepository{store: store, router: router, logger: logger}
}

// Save writes a new version row for the experience.
func (r *ExperienceRepository) Save(ctx context.Context, e *entities.Experience) error {
	if e.ID == "" {
		return apperrors.NewValidationError("experience id is required")
	}

	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	rec := experienceRecord{
		PK:          ExperienceKey(e.ID),
		SK:          NewSortKey(now),
		EntityType:  string(entities.EntityExperience),
		CreatorID:   e.CreatorID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		StartTime:   e.StartTime,
		VenueID:     e.VenueID,
		VenueName:   e.VenueName,
		Address:     e.Address,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Price:       e.Price,
		Capacity:    e.Capacity,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.VenueID != "" {
		rec.RelatedID = VenueKey(e.VenueID)
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal experience", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save experience", err)
	}

	r.logger.Debug("Experience saved", zap.String("experienceId", e.ID))
	return nil
}

// FindByID returns the latest row for an experience id, prefixed or bare.
func (r *ExperienceRepository) FindByID(ctx context.Context, id string) (*entities.Experience, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("experience id is required")
	}

	items, err := r.store.QueryPartition(ctx, ExperienceKey(id))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load experience", err)
	}

	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityExperience) {
			continue
		}
		return unmarshalExperience(item)
	}

	return nil, apperrors.NewNotFoundError("experience not found")
}

// FindByCreator returns the latest version of every experience created by
// the given user. No index covers the creator, so this is always a scan.
func (r *ExperienceRepository) FindByCreator(ctx context.Context, creatorID string) ([]*entities.Experience, error) {
	if creatorID == "" {
		return nil, apperrors.NewValidationError("creator id is required")
	}

	cond := expression.Name(attrCreatorID).Equal(expression.Value(creatorID)).
		And(expression.Name(attrEntityType).Equal(expression.Value(string(entities.EntityExperience))))

	items, err := r.store.ScanFilter(ctx, cond)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to scan experiences by creator", err)
	}

	return unmarshalExperiences(LatestPerPartition(items))
}

// FindByVenue returns the latest version of every experience held at the
// given venue, routed through the relationship index.
func (r *ExperienceRepository) FindByVenue(ctx context.Context, venueID string) ([]*entities.Experience, error) {
	items, err := r.router.FindRelated(ctx, venueID, VenuePrefix, string(entities.EntityExperience))
	if err != nil {
		return nil, err
	}
	return unmarshalExperiences(LatestPerPartition(items))
}

func unmarshalExperience(item Item) (*entities.Experience, error) {
	var rec experienceRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal experience", err)
	}
	return rec.toEntity(), nil
}

func unmarshalExperiences(items []Item) ([]*entities.Experience, error) {
	out := make([]*entities.Experience, 0, len(items))
	for _, item := range items {
		e, err := unmarshalExperience(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (rec *experienceRecord) toEntity() *entities.Experience {
	return &entities.Experience{
		ID:          StripPrefix(rec.PK, ExperiencePrefix),
		CreatorID:   rec.CreatorID,
		Title:       rec.Title,
		Description: rec.Description,
		Date:        rec.Date,
		StartTime:   rec.StartTime,
		VenueID:     rec.VenueID,
		VenueName:   rec.VenueName,
		Address:     rec.Address,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Price:       rec.Price,
		Capacity:    rec.Capacity,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
