package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntityKeysAreIdempotent(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"bare experience id", ExperienceKey, "abc-123", "EXPERIENCE#abc-123"},
		{"prefixed experience id", ExperienceKey, "EXPERIENCE#abc-123", "EXPERIENCE#abc-123"},
		{"bare group id", GroupKey, "g1", "GROUP#g1"},
		{"prefixed group id", GroupKey, "GROUP#g1", "GROUP#g1"},
		{"bare venue id", VenueKey, "v1", "VENUE#v1"},
		{"prefixed venue id", VenueKey, "VENUE#v1", "VENUE#v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
			// Encoding twice changes nothing.
			assert.Equal(t, tt.want, tt.fn(tt.fn(tt.in)))
		})
	}
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "abc", StripPrefix("EXPERIENCE#abc", ExperiencePrefix))
	assert.Equal(t, "abc", StripPrefix("abc", ExperiencePrefix))
	assert.Equal(t, "abc", StripPrefix(StripPrefix("EXPERIENCE#abc", ExperiencePrefix), ExperiencePrefix))
}

func TestIDVariants(t *testing.T) {
	assert.Equal(t, []string{"GROUP#g1", "g1"}, IDVariants("g1", GroupPrefix))
	assert.Equal(t, []string{"GROUP#g1", "g1"}, IDVariants("GROUP#g1", GroupPrefix))
	assert.Nil(t, IDVariants("", GroupPrefix))
	assert.Nil(t, IDVariants("GROUP#", GroupPrefix))
}

func TestSortKeysOrderByWriteInstant(t *testing.T) {
	// Lexicographic order must match chronological order: the sort key
	// doubles as a version marker. Fractional seconds are the hazard — a
	// trimmed fraction would make "10:00:00Z" sort after "10:00:00.5Z".
	instants := []time.Time{
		time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 10, 0, 0, 1, time.UTC),
		time.Date(2025, 3, 1, 10, 0, 0, 120_000_000, time.UTC),
		time.Date(2025, 3, 1, 10, 0, 0, 123_000_000, time.UTC),
		time.Date(2025, 3, 1, 10, 0, 0, 500_000_000, time.UTC),
		time.Date(2025, 3, 1, 10, 0, 1, 0, time.UTC),
	}

	for i := 1; i < len(instants); i++ {
		earlier := NewSortKey(instants[i-1])
		later := NewSortKey(instants[i])
		assert.Less(t, earlier, later)
		assert.Len(t, later, len(earlier), "sort keys are fixed width")
	}
}

func TestNewSortKeyNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)

	assert.Equal(t, NewSortKey(local.UTC()), NewSortKey(local))
}
