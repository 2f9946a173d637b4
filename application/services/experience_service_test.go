package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/geo"
)

func newExperienceFixture() (*ExperienceService, *fakeExperienceRepo, *fakeVenueRepo, *fakeCache, *fakeBus) {
	experiences := newFakeExperienceRepo()
	venues := newFakeVenueRepo()
	cache := newFakeCache()
	bus := &fakeBus{}
	svc := NewExperienceService(experiences, venues, cache, time.Minute, bus, zap.NewNop())
	return svc, experiences, venues, cache, bus
}

func TestSaveExperienceCreates(t *testing.T) {
	svc, _, _, _, bus := newExperienceFixture()

	e, err := svc.SaveExperience(context.Background(), "u1", entities.Experience{Title: "Wine tasting"})

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "u1", e.CreatorID)
	assert.Equal(t, entities.ExperiencePublished, e.Status)
	assert.Len(t, bus.published, 1)
}

func TestSaveExperienceUpsertsVenueFromCoordinates(t *testing.T) {
	svc, _, venues, _, _ := newExperienceFixture()

	e, err := svc.SaveExperience(context.Background(), "u1", entities.Experience{
		Title:     "Wine tasting",
		VenueName: "Le Caveau",
		Latitude:  floatPtr(48.8566),
		Longitude: floatPtr(2.3522),
	})

	require.NoError(t, err)
	// No venue id supplied, so the venue row keys on the experience id.
	v, err := venues.FindByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Le Caveau", v.Name)
	assert.Equal(t, geo.CellOf(48.8566, 2.3522), v.GeohashPrefix)
}

func TestSaveExperienceUpdateByStrangerForbidden(t *testing.T) {
	svc, _, _, _, _ := newExperienceFixture()
	ctx := context.Background()
	e, err := svc.SaveExperience(ctx, "u1", entities.Experience{Title: "Wine tasting"})
	require.NoError(t, err)

	_, err = svc.SaveExperience(ctx, "mallory", entities.Experience{ID: e.ID, Title: "Hijacked"})

	assert.True(t, apperrors.IsForbidden(err))
}

func TestSaveExperienceUpdateMerges(t *testing.T) {
	svc, _, _, _, _ := newExperienceFixture()
	ctx := context.Background()
	e, err := svc.SaveExperience(ctx, "u1", entities.Experience{Title: "Wine tasting", Date: "2025-06-01"})
	require.NoError(t, err)

	updated, err := svc.SaveExperience(ctx, "u1", entities.Experience{ID: e.ID, Title: "Cheese and wine"})

	require.NoError(t, err)
	assert.Equal(t, "Cheese and wine", updated.Title)
	assert.Equal(t, "2025-06-01", updated.Date)
	assert.Equal(t, "u1", updated.CreatorID)
}

func TestFindExperienceReadsThroughCache(t *testing.T) {
	svc, experiences, _, cache, _ := newExperienceFixture()
	ctx := context.Background()
	e, err := svc.SaveExperience(ctx, "u1", entities.Experience{Title: "Wine tasting"})
	require.NoError(t, err)

	first, err := svc.FindExperience(ctx, e.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.entries, experienceCacheKey(e.ID))

	experiences.experiences[e.ID].Title = "Changed"
	second, err := svc.FindExperience(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
}

func TestDeleteExperienceHidesIt(t *testing.T) {
	svc, _, _, _, _ := newExperienceFixture()
	ctx := context.Background()
	e, err := svc.SaveExperience(ctx, "u1", entities.Experience{Title: "Wine tasting"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExperience(ctx, "u1", e.ID))

	_, err = svc.FindExperience(ctx, e.ID)
	assert.True(t, apperrors.IsNotFound(err))

	mine, err := svc.FindExperiencesByCreator(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteExperienceCreatorOnly(t *testing.T) {
	svc, _, _, _, _ := newExperienceFixture()
	ctx := context.Background()
	e, err := svc.SaveExperience(ctx, "u1", entities.Experience{Title: "Wine tasting"})
	require.NoError(t, err)

	err = svc.DeleteExperience(ctx, "mallory", e.ID)

	assert.True(t, apperrors.IsForbidden(err))
}
