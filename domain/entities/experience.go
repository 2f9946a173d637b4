package entities

import (
	"errors"
	"time"
)

// Date and time layouts used on experience rows. Date is mandatory once an
// experience is scheduled; StartTime is optional (date-only experiences
// compare by calendar date).
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrNoSchedule is returned by StartsAt for experiences without a date.
var ErrNoSchedule = errors.New("experience has no scheduled date")

// Experience is an event a creator publishes and users attend.
type Experience struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Date        string // DateLayout
	StartTime   string // TimeLayout, optional
	VenueID     string
	VenueName   string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Price       *float64
	Capacity    *int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDeleted reports whether the experience has been soft-deleted.
func (e *Experience) IsDeleted() bool {
	return e.Status == ExperienceDeleted
}

// HasCoordinates reports whether the experience carries a usable location.
func (e *Experience) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// StartsAt resolves the start instant of the experience in UTC. The boolean
// result is true when the experience only carries a date, in which case the
// instant is midnight UTC of that date and callers must compare by calendar
// date rather than by instant.
func (e *Experience) StartsAt() (time.Time, bool, error) {
	if e.Date == "" {
		return time.Time{}, false, ErrNoSchedule
	}
	day, err := time.ParseInLocation(DateLayout, e.Date, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	if e.StartTime == "" {
		return day, true, nil
	}
	clock, err := time.ParseInLocation(TimeLayout, e.StartTime, time.UTC)
	if err != nil {
		// A malformed time should not hide the date; fall back to date-only.
		return day, true, nil
	}
	at := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	return at, false, nil
}

// Merge copies the non-zero fields of in onto e, preserving identity, creator
// and creation time. Partial updates merge field by field; absent fields on
// the incoming entity leave the stored value untouched.
func (e *Experience) Merge(in Experience) {
	if in.Title != "" {
		e.Title = in.Title
	}
	if in.Description != "" {
		e.Description = in.Description
	}
	if in.Date != "" {
		e.Date = in.Date
	}
	if in.StartTime != "" {
		e.StartTime = in.StartTime
	}
	if in.VenueID != "" {
		e.VenueID = in.VenueID
	}
	if in.VenueName != "" {
		e.VenueName = in.VenueName
	}
	if in.Address != "" {
		e.Address = in.Address
	}
	if in.Latitude != nil {
		e.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		e.Longitude = in.Longitude
	}
	if in.Price != nil {
		e.Price = in.Price
	}
	if in.Capacity != nil {
		e.Capacity = in.Capacity
	}
	if in.Status != "" {
		e.Status = in.Status
	}
}
