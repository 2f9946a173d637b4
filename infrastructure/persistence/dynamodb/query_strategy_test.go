package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherly-backend/infrastructure/config"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/observability"
)

// stubStore scripts the index and scan responses for router tests.
type stubStore struct {
	indexItems []Item
	indexErr   error
	indexCalls int

	scanItems []Item
	scanErr   error
	scanCalls int
}

func (s *stubStore) QueryIndex(_ context.Context, _, _, _ string) ([]Item, error) {
	s.indexCalls++
	return s.indexItems, s.indexErr
}

func (s *stubStore) ScanFilter(_ context.Context, _ expression.ConditionBuilder) ([]Item, error) {
	s.scanCalls++
	return s.scanItems, s.scanErr
}

func row(pk, sk, entityType string) Item {
	return Item{
		attrPK:         &types.AttributeValueMemberS{Value: pk},
		attrSK:         &types.AttributeValueMemberS{Value: sk},
		attrEntityType: &types.AttributeValueMemberS{Value: entityType},
	}
}

func newTestRouter(store relationStore, strategy string) *Router {
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test", nil, logger)
	return NewRouter(store, strategy, "related-index", metrics, logger)
}

func TestFindRelatedUsesIndex(t *testing.T) {
	store := &stubStore{
		indexItems: []Item{
			row("u1", "2025-01-01T00:00:00Z", "USER_EXPERIENCE"),
			row("GROUP#g1", "2025-01-01T00:00:00Z", "GROUP_EXPERIENCE"),
		},
	}
	r := newTestRouter(store, config.StrategyScanFallback)

	items, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.NoError(t, err)
	require.Len(t, items, 2) // one hit per id variant, entity-type filtered
	assert.Zero(t, store.scanCalls)
	assert.Equal(t, 2, store.indexCalls) // prefixed and bare forms
}

func TestFindRelatedEmptyIndexResultDoesNotScan(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(store, config.StrategyScanFallback)

	items, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, store.scanCalls, "zero rows is an answer, not a failure")
}

func TestFindRelatedFallsBackOnIndexError(t *testing.T) {
	store := &stubStore{
		indexErr:  errors.New("index unavailable"),
		scanItems: []Item{row("u1", "2025-01-01T00:00:00Z", "USER_EXPERIENCE")},
	}
	r := newTestRouter(store, config.StrategyScanFallback)

	items, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, store.scanCalls)
}

func TestFindRelatedScanFailureIsTerminal(t *testing.T) {
	store := &stubStore{
		indexErr: errors.New("index unavailable"),
		scanErr:  errors.New("scan throttled"),
	}
	r := newTestRouter(store, config.StrategyScanFallback)

	_, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
}

func TestFindRelatedIndexFirstPropagatesError(t *testing.T) {
	store := &stubStore{indexErr: errors.New("index unavailable")}
	r := newTestRouter(store, config.StrategyIndexFirst)

	_, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	assert.Zero(t, store.scanCalls)
}

func TestFindRelatedScanOnlySkipsIndex(t *testing.T) {
	store := &stubStore{
		scanItems: []Item{row("u1", "2025-01-01T00:00:00Z", "USER_EXPERIENCE")},
	}
	r := newTestRouter(store, config.StrategyScanOnly)

	items, err := r.FindRelated(context.Background(), "e1", ExperiencePrefix, "USER_EXPERIENCE")

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Zero(t, store.indexCalls)
}

func TestFindRelatedEmptyIDRejected(t *testing.T) {
	r := newTestRouter(&stubStore{}, config.StrategyScanFallback)

	_, err := r.FindRelated(context.Background(), "", ExperiencePrefix, "USER_EXPERIENCE")

	assert.True(t, apperrors.IsValidation(err))
}

func TestFindIndexedFallsBackOnError(t *testing.T) {
	store := &stubStore{
		indexErr:  errors.New("index unavailable"),
		scanItems: []Item{row("VENUE#v1", "2025-01-01T00:00:00Z", "VENUE")},
	}
	r := newTestRouter(store, config.StrategyScanFallback)

	items, err := r.FindIndexed(context.Background(), "geohash-index", attrGeohash, "u4pru", "VENUE")

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLatestPerPartition(t *testing.T) {
	items := []Item{
		row("u1", "2025-01-02T00:00:00Z", "PROFILE"),
		row("u1", "2025-01-01T00:00:00Z", "PROFILE"),
		row("u2", "2025-01-01T00:00:00Z", "PROFILE"),
		row("u1", "2025-01-03T00:00:00Z", "PROFILE"),
	}

	latest := LatestPerPartition(items)

	require.Len(t, latest, 2)
	assert.Equal(t, "2025-01-03T00:00:00Z", stringAttr(latest[0], attrSK))
	assert.Equal(t, "u2", stringAttr(latest[1], attrPK))
}
