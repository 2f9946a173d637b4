package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsAt(t *testing.T) {
	t.Run("date and time", func(t *testing.T) {
		e := Experience{Date: "2025-06-01", StartTime: "19:30"}
		at, dateOnly, err := e.StartsAt()

		require.NoError(t, err)
		assert.False(t, dateOnly)
		assert.Equal(t, time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC), at)
	})

	t.Run("date only", func(t *testing.T) {
		e := Experience{Date: "2025-06-01"}
		at, dateOnly, err := e.StartsAt()

		require.NoError(t, err)
		assert.True(t, dateOnly)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), at)
	})

	t.Run("malformed time falls back to date", func(t *testing.T) {
		e := Experience{Date: "2025-06-01", StartTime: "7pm"}
		at, dateOnly, err := e.StartsAt()

		require.NoError(t, err)
		assert.True(t, dateOnly)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), at)
	})

	t.Run("no date", func(t *testing.T) {
		e := Experience{}
		_, _, err := e.StartsAt()
		assert.ErrorIs(t, err, ErrNoSchedule)
	})

	t.Run("malformed date", func(t *testing.T) {
		e := Experience{Date: "June 1st"}
		_, _, err := e.StartsAt()
		assert.Error(t, err)
	})
}

func TestExperienceMerge(t *testing.T) {
	lat := 48.85
	price := 25.0

	e := Experience{
		ID:        "e1",
		CreatorID: "u1",
		Title:     "Old title",
		Date:      "2025-06-01",
	}
	e.Merge(Experience{
		Title:    "New title",
		Latitude: &lat,
		Price:    &price,
	})

	assert.Equal(t, "New title", e.Title)
	assert.Equal(t, "2025-06-01", e.Date, "absent fields stay untouched")
	assert.Equal(t, "u1", e.CreatorID)
	require.NotNil(t, e.Latitude)
	assert.Equal(t, lat, *e.Latitude)
	require.NotNil(t, e.Price)
	assert.Equal(t, price, *e.Price)
}
