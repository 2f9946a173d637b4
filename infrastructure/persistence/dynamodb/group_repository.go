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

// groupRecord is the physical shape of a group row. The GROUP#id partition
// also holds the group's experience-link rows.
type groupRecord struct {
	PK          string    `dynamodbav:"pk"`
	SK          string    `dynamodbav:"sk"`
	EntityType  string    `dynamodbav:"entityType"`
	OwnerID     string    `dynamodbav:"ownerId,omitempty"`
	Name        string    `dynamodbav:"name,omitempty"`
	Description string    `dynamodbav:"description,omitempty"`
	PhotoURL    string    `dynamodbav:"photoUrl,omitempty"`
	Members     []string  `dynamodbav:"members,omitempty"`
	Status      string    `dynamodbav:"status,omitempty"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt"`
}

// GroupRepository persists groups.
type GroupRepository struct {
	store  *TableStore
	logger *zap.Logger
}

// NewGroupRepository creates a group repository.
func NewGroupRepository(store *TableStore, logger *zap.Logger) *GroupRepository {
	return &GroupRepository{store: store, logger: logger}
}

// Save writes a new version row for the group.
func (r *GroupRepository) Save(ctx context.Context, g *entities.Group) error {
	if g.ID == "" {
		return apperrors.NewValidationError("group id is required")
	}
	if len(g.Members) == 0 {
		return apperrors.NewValidationError("a group requires at least one member")
	}

	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	rec := groupRecord{
		PK:          GroupKey(g.ID),
		SK:          NewSortKey(now),
		EntityType:  string(entities.EntityGroup),
		OwnerID:     g.OwnerID,
		Name:        g.Name,
		Description: g.Description,
		PhotoURL:    g.PhotoURL,
		Members:     g.Members,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal group", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save group", err)
	}

	r.logger.Debug("Group saved", zap.String("groupId", g.ID))
	return nil
}

// FindByID returns the latest row for a group id, prefixed or bare.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*entities.Group, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("group id is required")
	}

	items, err := r.store.QueryPartition(ctx, GroupKey(id))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load group", err)
	}

	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityGroup) {
			continue
		}
		return unmarshalGroup(item)
	}

	return nil, apperrors.NewNotFoundError("group not found")
}

// FindByMember returns the latest version of every group the user belongs
// to. Membership lives in a list attribute no index can key on, so this is
// always a scan.
func (r *GroupRepository) FindByMember(ctx context.Context, userID string) ([]*entities.Group, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	cond := expression.Name(attrMembers).Contains(userID).
		And(expression.Name(attrEntityType).Equal(expression.Value(string(entities.EntityGroup))))

	items, err := r.store.ScanFilter(ctx, cond)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to scan groups by member", err)
	}

	groups := make([]*entities.Group, 0, len(items))
	for _, item := range LatestPerPartition(items) {
		g, err := unmarshalGroup(item)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// HardDelete removes every row in the group's partition: all group versions
// and all of its experience-link rows. There is no undo.
func (r *GroupRepository) HardDelete(ctx context.Context, id string) error {
	pk := GroupKey(id)
	items, err := r.store.QueryPartition(ctx, pk)
	if err != nil {
		return apperrors.NewDatabaseError("failed to load group rows for delete", err)
	}
	if len(items) == 0 {
		return apperrors.NewNotFoundError("group not found")
	}

	for _, item := range items {
		if err := r.store.Delete(ctx, pk, stringAttr(item, attrSK)); err != nil {
			return apperrors.NewDatabaseError("failed to delete group row", err)
		}
	}

	r.logger.Info("Group hard-deleted",
		zap.String("groupId", id),
		zap.Int("rows", len(items)),
	)
	return nil
}

func unmarshalGroup(item Item) (*entities.Group, error) {
	var rec groupRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal group", err)
	}
	return &entities.Group{
		ID:          StripPrefix(rec.PK, GroupPrefix),
		OwnerID:     rec.OwnerID,
		Name:        rec.Name,
		Description: rec.Description,
		PhotoURL:    rec.PhotoURL,
		Members:     rec.Members,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}
