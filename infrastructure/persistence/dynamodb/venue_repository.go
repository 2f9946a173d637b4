package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/geo"
)

// venueRecord is the physical shape of a venue row. The geohash prefix is
// the only attribute the geohash index covers; it is recomputed on every
// write so a coordinate change moves the venue to its new cell.
type venueRecord struct {
	PK         string    `dynamodbav:"pk"`
	SK         string    `dynamodbav:"sk"`
	EntityType string    `dynamodbav:"entityType"`
	Name       string    `dynamodbav:"name,omitempty"`
	Latitude   float64   `dynamodbav:"latitude"`
	Longitude  float64   `dynamodbav:"longitude"`
	Geohash    string    `dynamodbav:"geohash_prefix"`
	CreatedAt  time.Time `dynamodbav:"createdAt"`
	UpdatedAt  time.Time `dynamodbav:"updatedAt"`
}

// VenueRepository persists venue locations.
type VenueRepository struct {
	store     *TableStore
	router    *Router
	indexName string
	logger    *zap.Logger
}

// NewVenueRepository creates a venue repository bound to the geohash index.
func NewVenueRepository(store *TableStore, router *Router, indexName string, logger *zap.Logger) *VenueRepository {
	return &VenueRepository{store: store, router: router, indexName: indexName, logger: logger}
}

// Save writes a new version row for the venue, recomputing its geohash cell
// from the coordinates.
func (r *VenueRepository) Save(ctx context.Context, v *entities.VenueLocation) error {
	if v.VenueID == "" {
		return apperrors.NewValidationError("venue id is required")
	}
	if !geo.ValidCoordinate(v.Latitude, v.Longitude) {
		return apperrors.NewValidationError("venue coordinates are out of range")
	}

	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	v.GeohashPrefix = geo.CellOf(v.Latitude, v.Longitude)

	rec := venueRecord{
		PK:         VenueKey(v.VenueID),
		SK:         NewSortKey(now),
		EntityType: string(entities.EntityVenue),
		Name:       v.Name,
		Latitude:   v.Latitude,
		Longitude:  v.Longitude,
		Geohash:    v.GeohashPrefix,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal venue", err)
	}
	if err := r.store.Put(ctx, item); err != nil {
		return apperrors.NewDatabaseError("failed to save venue", err)
	}

	r.logger.Debug("Venue saved",
		zap.String("venueId", v.VenueID),
		zap.String("cell", v.GeohashPrefix),
	)
	return nil
}

// FindByID returns the latest row for a venue id, prefixed or bare.
func (r *VenueRepository) FindByID(ctx context.Context, id string) (*entities.VenueLocation, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("venue id is required")
	}

	items, err := r.store.QueryPartition(ctx, VenueKey(id))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load venue", err)
	}

	for _, item := range items {
		if stringAttr(item, attrEntityType) != string(entities.EntityVenue) {
			continue
		}
		return unmarshalVenue(item)
	}

	return nil, apperrors.NewNotFoundError("venue not found")
}

// FindByCell returns the latest version of every venue in a geohash cell.
func (r *VenueRepository) FindByCell(ctx context.Context, cell string) ([]*entities.VenueLocation, error) {
	items, err := r.router.FindIndexed(ctx, r.indexName, attrGeohash, cell, string(entities.EntityVenue))
	if err != nil {
		return nil, err
	}

	venues := make([]*entities.VenueLocation, 0, len(items))
	for _, item := range LatestPerPartition(items) {
		v, err := unmarshalVenue(item)
		if err != nil {
			return nil, err
		}
		// Old versions in the index may still carry a stale cell after the
		// venue moved; keep only rows whose current cell matches.
		if v.GeohashPrefix != cell {
			continue
		}
		venues = append(venues, v)
	}
	return venues, nil
}

func unmarshalVenue(item Item) (*entities.VenueLocation, error) {
	var rec venueRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal venue", err)
	}
	return &entities.VenueLocation{
		VenueID:       StripPrefix(rec.PK, VenuePrefix),
		Name:          rec.Name,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		GeohashPrefix: rec.Geohash,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}
