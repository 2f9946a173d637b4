package entities

import "time"

// VenueLocation is the geospatial row for a venue. The geohash prefix is
// recomputed on every coordinate change; it is the only attribute the
// geohash index covers.
type VenueLocation struct {
	VenueID       string
	Name          string
	Latitude      float64
	Longitude     float64
	GeohashPrefix string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GroupExperienceLink is the group↔experience join row. Exactly one row per
// (group, experience) pair; unlinking hard-deletes the row.
type GroupExperienceLink struct {
	GroupID      string
	ExperienceID string
	AddedBy      string
	CreatedAt    time.Time
}
