package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"

	"gatherly-backend/infrastructure/config"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/observability"
)

// relationStore is the slice of TableStore the router needs. Narrowed so
// tests can stand in a failing index without a live table.
type relationStore interface {
	QueryIndex(ctx context.Context, indexName, keyAttr, keyValue string) ([]Item, error)
	ScanFilter(ctx context.Context, cond expression.ConditionBuilder) ([]Item, error)
}

// Router resolves relationship lookups (rows whose relatedId points at a
// given entity) through the related-index GSI, a base-table scan, or the
// GSI with a scan fallback, per the configured strategy.
//
// Under scan-fallback the scan runs only when the index query ERRORS. An
// index query that succeeds with zero rows is an answer, not a failure;
// falling back on empty would turn every legitimately-empty lookup into a
// full table scan.
type Router struct {
	store     relationStore
	strategy  string
	indexName string
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewRouter creates a query router.
func NewRouter(store relationStore, strategy, indexName string, metrics *observability.Metrics, logger *zap.Logger) *Router {
	return &Router{
		store:     store,
		strategy:  strategy,
		indexName: indexName,
		metrics:   metrics,
		logger:    logger,
	}
}

// FindRelated returns all rows of the given entity type whose relatedId
// matches any historical form of the id. Results include every stored
// version; callers dedupe with LatestPerPartition when they want only the
// current row per entity.
func (r *Router) FindRelated(ctx context.Context, relatedID, prefix, entityType string) ([]Item, error) {
	variants := IDVariants(relatedID, prefix)
	if len(variants) == 0 {
		return nil, apperrors.NewValidationError("related id is required")
	}

	if r.strategy == config.StrategyScanOnly {
		return r.scanRelated(ctx, variants, entityType)
	}

	items, err := r.queryIndex(ctx, variants, entityType)
	if err == nil {
		return items, nil
	}

	if r.strategy == config.StrategyIndexFirst {
		return nil, apperrors.NewDatabaseError("relationship index query failed", err)
	}

	r.logger.Warn("Index query failed, falling back to table scan",
		zap.String("index", r.indexName),
		zap.String("relatedId", relatedID),
		zap.Error(err),
	)
	r.metrics.RecordIndexFallback(ctx, r.indexName)

	items, err = r.scanRelated(ctx, variants, entityType)
	if err != nil {
		// The fallback is the last resort; its failure is terminal.
		return nil, apperrors.NewDatabaseError("fallback scan failed", err)
	}
	return items, nil
}

// FindIndexed applies the same strategy to a single-key index lookup, such
// as the geohash index. No id-variant handling; the key value is exact.
func (r *Router) FindIndexed(ctx context.Context, indexName, keyAttr, keyValue, entityType string) ([]Item, error) {
	if keyValue == "" {
		return nil, apperrors.NewValidationError("index key value is required")
	}

	scanCond := expression.Name(keyAttr).Equal(expression.Value(keyValue)).
		And(expression.Name(attrEntityType).Equal(expression.Value(entityType)))

	if r.strategy == config.StrategyScanOnly {
		return r.store.ScanFilter(ctx, scanCond)
	}

	items, err := r.store.QueryIndex(ctx, indexName, keyAttr, keyValue)
	if err == nil {
		return filterEntityType(items, entityType), nil
	}

	if r.strategy == config.StrategyIndexFirst {
		return nil, apperrors.NewDatabaseError("index query failed", err)
	}

	r.logger.Warn("Index query failed, falling back to table scan",
		zap.String("index", indexName),
		zap.String("key", keyAttr),
		zap.Error(err),
	)
	r.metrics.RecordIndexFallback(ctx, indexName)

	items, err = r.store.ScanFilter(ctx, scanCond)
	if err != nil {
		return nil, apperrors.NewDatabaseError("fallback scan failed", err)
	}
	return items, nil
}

// queryIndex tries the GSI for each id variant and merges the results.
func (r *Router) queryIndex(ctx context.Context, variants []string, entityType string) ([]Item, error) {
	var merged []Item
	for _, variant := range variants {
		items, err := r.store.QueryIndex(ctx, r.indexName, attrRelatedID, variant)
		if err != nil {
			return nil, err
		}
		merged = append(merged, filterEntityType(items, entityType)...)
	}
	return merged, nil
}

// filterEntityType drops rows of other entity types. Index projections carry
// every row whose key attribute matches, regardless of type.
func filterEntityType(items []Item, entityType string) []Item {
	out := items[:0:0]
	for _, item := range items {
		if stringAttr(item, attrEntityType) == entityType {
			out = append(out, item)
		}
	}
	return out
}

// scanRelated scans the base table matching any id variant plus the entity
// type.
func (r *Router) scanRelated(ctx context.Context, variants []string, entityType string) ([]Item, error) {
	cond := expression.Name(attrRelatedID).Equal(expression.Value(variants[0]))
	for _, variant := range variants[1:] {
		cond = cond.Or(expression.Name(attrRelatedID).Equal(expression.Value(variant)))
	}
	cond = cond.And(expression.Name(attrEntityType).Equal(expression.Value(entityType)))

	return r.store.ScanFilter(ctx, cond)
}
