package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

// groupExperienceRecord is the group↔experience link row. It lives in the
// group's partition; relatedId points at the experience so the related index
// can answer the reverse lookup.
type groupExperienceRecord struct {
	PK         string    `dynamodbav:"pk"`
	SK         string    `dynamodbav:"sk"`
	EntityType string    `dynamodbav:"entityType"`
	RelatedID  string    `dynamodbav:"relatedId"`
	AddedBy    string    `dynamodbav:"addedBy,omitempty"`
	CreatedAt  time.Time `dynamodbav:"createdAt"`
}

// GroupExperienceRepository persists group↔experience links.
type GroupExperienceRepository struct {
	store  *TableStore
	router *Router
	logger *zap.Logger
}

// NewGroupExperienceRepository creates a link repository.
func NewGroupExperienceRepository(store *TableStore, router *Router, logger *zap.Logger) *GroupExperienceRepository {
	return &GroupExperienceRepository{store: store, router: router, logger: logger}
}

// Link upserts the link row for a (group, experience) pair. Linking twice is
// a no-op in effect: the existing row is rewritten under its original sort
// key with its original creation time, so exactly one row remains.
func (r *GroupExperienceRepository) Link(ctx context.Context, link *entities.GroupExperienceLink) error {
	if link.GroupID == "" || link.ExperienceID == "" {
		return apperrors.NewValidationError("group id and experience id are required")
	}

	existing, err := r.findRow(ctx, link.GroupID, link.ExperienceID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rec := groupExperienceRecord{
		PK:         GroupKey(link.GroupID),
		SK:         NewSortKey(now),
		EntityType: string(entities.EntityGroupExperience),
		RelatedID:  ExperienceKey(link.ExperienceID),
		AddedBy:    link.AddedBy,
		CreatedAt:  now,
	}
	if existing != nil {
		rec.SK = existing.SK
		rec.CreatedAt = existing.CreatedAt
		if rec.AddedBy == "" {
			rec.AddedBy = existing.AddedBy
		}
	}
	link.CreatedAt = rec.CreatedAt

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal link", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save link", err)
	}

	r.logger.Debug("Group experience linked",
		zap.String("groupId", link.GroupID),
		zap.String("experienceId", link.ExperienceID),
	)
	return nil
}

// Unlink removes the link row for a (group, experience) pair. Unlinking a
// pair that was never linked is not found.
func (r *GroupExperienceRepository) Unlink(ctx context.Context, groupID, experienceID string) error {
	if groupID == "" || experienceID == "" {
		return apperrors.NewValidationError("group id and experience id are required")
	}

	existing, err := r.findRow(ctx, groupID, experienceID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("group experience link not found")
	}

	if err := r.store.Delete(ctx, existing.PK, existing.SK); err != nil {
		return apperrors.NewDatabaseError("failed to delete link", err)
	}
	return nil
}

// FindByGroup returns the links in a group's partition.
func (r *GroupExperienceRepository) FindByGroup(ctx context.Context, groupID string) ([]*entities.GroupExperienceLink, error) {
	if groupID == "" {
		return nil, apperrors.NewValidationError("group id is required")
	}

	items, err := r.store.QueryPartition(ctx, GroupKey(groupID))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load group links", err)
	}

	var links []*entities.GroupExperienceLink
	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityGroupExperience) {
			continue
		}
		link, err := unmarshalLink(item)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// FindByExperience returns the links pointing at an experience, across all
// groups, routed through the relationship index.
func (r *GroupExperienceRepository) FindByExperience(ctx context.Context, experienceID string) ([]*entities.GroupExperienceLink, error) {
	items, err := r.router.FindRelated(ctx, experienceID, ExperiencePrefix, string(entities.EntityGroupExperience))
	if err != nil {
		return nil, err
	}

	links := make([]*entities.GroupExperienceLink, 0, len(items))
	for _, item := range items {
		link, err := unmarshalLink(item)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

// findRow locates the existing link row for a pair, matching either
// historical form of the experience id. Nil without error means no row.
func (r *GroupExperienceRepository) findRow(ctx context.Context, groupID, experienceID string) (*groupExperienceRecord, error) {
	items, err := r.store.QueryPartition(ctx, GroupKey(groupID))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load group links", err)
	}

	variants := IDVariants(experienceID, ExperiencePrefix)
	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityGroupExperience) {
			continue
		}
		related := stringAttr(item, attrRelatedID)
		for _, variant := range variants {
			if related == variant {
				var rec groupExperienceRecord
				if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
					return nil, apperrors.NewInternalError("failed to unmarshal link", err)
				}
				return &rec, nil
			}
		}
	}
	return nil, nil
}

func unmarshalLink(item Item) (*entities.GroupExperienceLink, error) {
	var rec groupExperienceRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal link", err)
	}
	return &entities.GroupExperienceLink{
		GroupID:      StripPrefix(rec.PK, GroupPrefix),
		ExperienceID: StripPrefix(rec.RelatedID, ExperiencePrefix),
		AddedBy:      rec.AddedBy,
		CreatedAt:    rec.CreatedAt,
	}, nil
}
