package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

// profileRecord is the physical shape of a profile row. The pk is the raw
// user id with no prefix; the profile shares its partition with the user's
// attendance rows and is distinguished by entityType.
type profileRecord struct {
	PK         string    `dynamodbav:"pk"`
	SK         string    `dynamodbav:"sk"`
	EntityType string    `dynamodbav:"entityType"`
	FullName   string    `dynamodbav:"fullName,omitempty"`
	Email      string    `dynamodbav:"email,omitempty"`
	Bio        string    `dynamodbav:"bio,omitempty"`
	PhotoURL   string    `dynamodbav:"photoUrl,omitempty"`
	Interests  []string  `dynamodbav:"interests,omitempty"`
	Status     string    `dynamodbav:"status,omitempty"`
	CreatedAt  time.Time `dynamodbav:"createdAt"`
	UpdatedAt  time.Time `dynamodbav:"updatedAt"`
}

// ProfileRepository persists user profiles.
type ProfileRepository struct {
	store  *TableStore
	logger *zap.Logger
}

// NewProfileRepository creates a profile repository.
func NewProfileRepository(store *TableStore, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{store: store, logger: logger}
}

// Save writes a new version row for the profile. Earlier rows stay in the
// partition; reads resolve the newest one.
func (r *ProfileRepository) Save(ctx context.Context, p *entities.Profile) error {
	if p.UserID == "" {
		return apperrors.NewValidationError("user id is required")
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	rec := profileRecord{
		PK:         p.UserID,
		SK:         NewSortKey(now),
		EntityType: string(entities.EntityProfile),
		FullName:   p.FullName,
		Email:      p.Email,
		Bio:        p.Bio,
		PhotoURL:   p.PhotoURL,
		Interests:  p.Interests,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal profile", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save profile", err)
	}

	r.logger.Debug("Profile saved", zap.String("userId", p.UserID))
	return nil
}

// FindByID returns the latest profile row for a user id. Soft-deleted
// profiles are returned as stored; callers decide visibility.
func (r *ProfileRepository) FindByID(ctx context.Context, userID string) (*entities.Profile, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	items, err := r.store.QueryPartition(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load profile", err)
	}

	// Rows come back newest first; the first PROFILE row is the current one.
	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityProfile) {
			continue
		}
		var rec profileRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal profile", err)
		}
		return rec.toEntity(), nil
	}

	return nil, apperrors.NewNotFoundError("profile not found")
}

func (rec *profileRecord) toEntity() *entities.Profile {
	return &entities.Profile{
		UserID:    rec.PK,
		FullName:  rec.FullName,
		Email:     rec.Email,
		Bio:       rec.Bio,
		PhotoURL:  rec.PhotoURL,
		Interests: rec.Interests,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
