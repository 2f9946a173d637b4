package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

// Timeline views over a user's attendance rows.
const (
	ViewInterested = "interested"
	ViewPast       = "past"
	ViewUpcoming   = "upcoming"
)

// TimelineEntry pairs an experience with the caller's attendance row.
type TimelineEntry struct {
	Experience *entities.Experience `json:"experience"`
	Attendance *entities.Attendance `json:"attendance"`
}

// TimelineService filters a user's experiences by temporal view. The clock
// is injected so the boundary conditions are testable.
type TimelineService struct {
	attendance  ports.UserExperienceRepository
	experiences ports.ExperienceRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewTimelineService creates a timeline service using the wall clock.
func NewTimelineService(attendance ports.UserExperienceRepository, experiences ports.ExperienceRepository, logger *zap.Logger) *TimelineService {
	return &TimelineService{
		attendance:  attendance,
		experiences: experiences,
		now:         time.Now,
		logger:      logger,
	}
}

// FilterExperiences returns the user's experiences matching the requested
// views. Several views may be named, comma-separated; each predicate is
// evaluated independently and a row matching any of them is included once.
// An empty view means past. Rows with a blank experience reference, or
// pointing at missing or deleted experiences, or without a scheduled date,
// are skipped and logged rather than failing the whole listing.
func (s *TimelineService) FilterExperiences(ctx context.Context, userID, view string) ([]TimelineEntry, error) {
	views, err := parseViews(view)
	if err != nil {
		return nil, err
	}

	rows, err := s.attendance.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var entries []TimelineEntry

	for _, a := range rows {
		if a.ExperienceID == "" {
			s.logger.Warn("Attendance row has no experience id", zap.String("userId", userID))
			continue
		}

		e, err := s.experiences.FindByID(ctx, a.ExperienceID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				s.logger.Warn("Attendance row points at missing experience",
					zap.String("userId", userID),
					zap.String("experienceId", a.ExperienceID),
				)
				continue
			}
			return nil, err
		}
		if e.IsDeleted() {
			continue
		}

		start, dateOnly, err := e.StartsAt()
		if err != nil {
			s.logger.Warn("Experience has no usable schedule",
				zap.String("experienceId", e.ID),
				zap.Error(err),
			)
			continue
		}

		for _, v := range views {
			if matchesView(a, v, start, dateOnly, now) {
				entries = append(entries, TimelineEntry{Experience: e, Attendance: a})
				break
			}
		}
	}

	sortEntries(entries, views)
	return entries, nil
}

// parseViews splits a comma-separated view parameter into the unique views
// requested. Empty input means past.
func parseViews(view string) ([]string, error) {
	if view == "" {
		return []string{ViewPast}, nil
	}

	var views []string
	seen := make(map[string]bool)
	for _, v := range strings.Split(view, ",") {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		switch v {
		case ViewInterested, ViewPast, ViewUpcoming:
		default:
			return nil, apperrors.NewValidationError("view must be one of interested, past, upcoming")
		}
		seen[v] = true
		views = append(views, v)
	}
	if len(views) == 0 {
		return nil, apperrors.NewValidationError("view must be one of interested, past, upcoming")
	}
	return views, nil
}

// matchesView applies the view predicate. Date-only experiences compare by
// calendar date; timed ones by instant.
func matchesView(a *entities.Attendance, view string, start time.Time, dateOnly bool, now time.Time) bool {
	switch view {
	case ViewInterested:
		// Interest only matters while the experience is current or ahead.
		if !a.IsInterested() {
			return false
		}
		if dateOnly {
			return !dateBefore(start, now)
		}
		return !start.Before(now)
	case ViewPast:
		if !a.IsAttending() {
			return false
		}
		if dateOnly {
			return dateBefore(start, now)
		}
		return start.Before(now)
	case ViewUpcoming:
		if !a.IsAttending() {
			return false
		}
		if dateOnly {
			return dateBefore(now, start)
		}
		return start.After(now)
	}
	return false
}

// dateBefore reports whether a's calendar date precedes b's, both in UTC.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// sortEntries orders the result: most recent first when only the past view
// was requested, soonest first as soon as a forward-looking view is in play.
func sortEntries(entries []TimelineEntry, views []string) {
	pastOnly := len(views) == 1 && views[0] == ViewPast
	sort.SliceStable(entries, func(i, j int) bool {
		si, _, _ := entries[i].Experience.StartsAt()
		sj, _, _ := entries[j].Experience.StartsAt()
		if pastOnly {
			return si.After(sj)
		}
		return si.Before(sj)
	})
}
