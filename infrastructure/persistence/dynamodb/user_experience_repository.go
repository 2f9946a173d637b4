package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

// userExperienceRecord is the user↔experience attendance row. It shares the
// user's unprefixed partition with the profile row; relatedId points at the
// experience for the reverse lookup.
type userExperienceRecord struct {
	PK         string                   `dynamodbav:"pk"`
	SK         string                   `dynamodbav:"sk"`
	EntityType string                   `dynamodbav:"entityType"`
	RelatedID  string                   `dynamodbav:"relatedId"`
	Interested *bool                    `dynamodbav:"interested,omitempty"`
	Paid       *bool                    `dynamodbav:"paid,omitempty"`
	Status     string                   `dynamodbav:"status,omitempty"`
	Payment    *paymentRecord           `dynamodbav:"payment,omitempty"`
	CreatedAt  time.Time                `dynamodbav:"createdAt"`
	UpdatedAt  time.Time                `dynamodbav:"updatedAt"`
}

type paymentRecord struct {
	Reference string  `dynamodbav:"reference,omitempty"`
	Amount    float64 `dynamodbav:"amount,omitempty"`
	Currency  string  `dynamodbav:"currency,omitempty"`
	Method    string  `dynamodbav:"method,omitempty"`
	PaidAt    string  `dynamodbav:"paidAt,omitempty"`
}

// UserExperienceRepository persists attendance rows.
type UserExperienceRepository struct {
	store  *TableStore
	router *Router
	logger *zap.Logger
}

// NewUserExperienceRepository creates an attendance repository.
func NewUserExperienceRepository(store *TableStore, router *Router, logger *zap.Logger) *UserExperienceRepository {
	return &UserExperienceRepository{store: store, router: router, logger: logger}
}

// Upsert writes the attendance row for a (user, experience) pair. An
// existing row is rewritten under its original sort key with its original
// creation time, so the pair never accumulates rows. Two concurrent first
// writes can still race to distinct sort keys; the read path resolves that
// by taking the newest row per pair.
func (r *UserExperienceRepository) Upsert(ctx context.Context, a *entities.Attendance) error {
	if a.UserID == "" || a.ExperienceID == "" {
		return apperrors.NewValidationError("user id and experience id are required")
	}

	existing, err := r.findRow(ctx, a.UserID, a.ExperienceID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rec := userExperienceRecord{
		PK:         a.UserID,
		SK:         NewSortKey(now),
		EntityType: string(entities.EntityUserExperience),
		RelatedID:  ExperienceKey(a.ExperienceID),
		Interested: a.Interested,
		Paid:       a.Paid,
		Status:     a.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if a.Payment != nil {
		rec.Payment = &paymentRecord{
			Reference: a.Payment.Reference,
			Amount:    a.Payment.Amount,
			Currency:  a.Payment.Currency,
			Method:    a.Payment.Method,
			PaidAt:    a.Payment.PaidAt,
		}
	}
	if existing != nil {
		rec.SK = existing.SK
		rec.CreatedAt = existing.CreatedAt
	}
	a.CreatedAt = rec.CreatedAt
	a.UpdatedAt = rec.UpdatedAt

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal attendance", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save attendance", err)
	}

	r.logger.Debug("Attendance saved",
		zap.String("userId", a.UserID),
		zap.String("experienceId", a.ExperienceID),
	)
	return nil
}

// FindOne returns the attendance row for a (user, experience) pair.
func (r *UserExperienceRepository) FindOne(ctx context.Context, userID, experienceID string) (*entities.Attendance, error) {
	if userID == "" || experienceID == "" {
		return nil, apperrors.NewValidationError("user id and experience id are required")
	}

	rec, err := r.findRow(ctx, userID, experienceID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFoundError("attendance not found")
	}
	return rec.toEntity(), nil
}

// FindByUser returns the newest attendance row per experience for a user.
func (r *UserExperienceRepository) FindByUser(ctx context.Context, userID string) ([]*entities.Attendance, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	items, err := r.store.QueryPartition(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load attendance rows", err)
	}

	// Rows arrive newest first; the first row seen per experience wins.
	// The related id on old rows may be prefixed or bare, so dedupe on the
	// bare form.
	seen := make(map[string]bool)
	var out []*entities.Attendance
	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityUserExperience) {
			continue
		}
		experienceID := StripPrefix(stringAttr(item, attrRelatedID), ExperiencePrefix)
		if experienceID == "" || seen[experienceID] {
			continue
		}
		seen[experienceID] = true

		var rec userExperienceRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal attendance", err)
		}
		out = append(out, rec.toEntity())
	}
	return out, nil
}

// FindByExperience returns the newest attendance row per user for an
// experience, routed through the relationship index.
func (r *UserExperienceRepository) FindByExperience(ctx context.Context, experienceID string) ([]*entities.Attendance, error) {
	items, err := r.router.FindRelated(ctx, experienceID, ExperiencePrefix, string(entities.EntityUserExperience))
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Attendance, 0, len(items))
	for _, item := range LatestPerPartition(items) {
		var rec userExperienceRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal attendance", err)
		}
		out = append(out, rec.toEntity())
	}
	return out, nil
}

// findRow locates the newest attendance row for a pair, matching either
// historical form of the experience id. Nil without error means no row.
func (r *UserExperienceRepository) findRow(ctx context.Context, userID, experienceID string) (*userExperienceRecord, error) {
	items, err := r.store.QueryPartition(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load attendance rows", err)
	}

	variants := IDVariants(experienceID, ExperiencePrefix)
	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityUserExperience) {
			continue
		}
		related := stringAttr(item, attrRelatedID)
		for _, variant := range variants {
			if related == variant {
				var rec userExperienceRecord
				if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
					return nil, apperrors.NewInternalError("failed to unmarshal attendance", err)
				}
				return &rec, nil
			}
		}
	}
	return nil, nil
}

func (rec *userExperienceRecord) toEntity() *entities.Attendance {
	a := &entities.Attendance{
		UserID:       rec.PK,
		ExperienceID: StripPrefix(rec.RelatedID, ExperiencePrefix),
		Interested:   rec.Interested,
		Paid:         rec.Paid,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Payment != nil {
		a.Payment = &entities.PaymentDetails{
			Reference: rec.Payment.Reference,
			Amount:    rec.Payment.Amount,
			Currency:  rec.Payment.Currency,
			Method:    rec.Payment.Method,
			PaidAt:    rec.Payment.PaidAt,
		}
	}
	return a
}
