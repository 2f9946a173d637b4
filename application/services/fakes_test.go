package services

import (
	"context"
	"time"

	"gatherly-backend/domain/entities"
	"gatherly-backend/domain/events"
	apperrors "gatherly-backend/pkg/errors"
	"gatherly-backend/pkg/geo"
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// In-memory fakes for the repository ports. They model only the behavior the
// services rely on: latest-row semantics and not-found on absence.

type fakeProfileRepo struct {
	profiles map[string]*entities.Profile
	saves    int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entities.Profile)}
}

func (f *fakeProfileRepo) Save(_ context.Context, p *entities.Profile) error {
	f.saves++
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByID(_ context.Context, userID string) (*entities.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	cp := *p
	return &cp, nil
}

type fakeExperienceRepo struct {
	experiences map[string]*entities.Experience
	byVenue     map[string][]string
}

func newFakeExperienceRepo() *fakeExperienceRepo {
	return &fakeExperienceRepo{
		experiences: make(map[string]*entities.Experience),
		byVenue:     make(map[string][]string),
	}
}

func (f *fakeExperienceRepo) Save(_ context.Context, e *entities.Experience) error {
	cp := *e
	f.experiences[e.ID] = &cp
	if e.VenueID != "" {
		f.byVenue[e.VenueID] = append(f.byVenue[e.VenueID], e.ID)
	}
	return nil
}

func (f *fakeExperienceRepo) FindByID(_ context.Context, id string) (*entities.Experience, error) {
	e, ok := f.experiences[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("experience not found")
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExperienceRepo) FindByCreator(_ context.Context, creatorID string) ([]*entities.Experience, error) {
	var out []*entities.Experience
	for _, e := range f.experiences {
		if e.CreatorID == creatorID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeExperienceRepo) FindByVenue(_ context.Context, venueID string) ([]*entities.Experience, error) {
	var out []*entities.Experience
	for _, id := range f.byVenue[venueID] {
		if e, ok := f.experiences[id]; ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeGroupRepo struct {
	groups      map[string]*entities.Group
	hardDeleted []string
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*entities.Group)}
}

func (f *fakeGroupRepo) Save(_ context.Context, g *entities.Group) error {
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	f.groups[g.ID] = &cp
	return nil
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id string) (*entities.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("group not found")
	}
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	return &cp, nil
}

func (f *fakeGroupRepo) FindByMember(_ context.Context, userID string) ([]*entities.Group, error) {
	var out []*entities.Group
	for _, g := range f.groups {
		for _, m := range g.Members {
			if m == userID {
				cp := *g
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) HardDelete(_ context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return apperrors.NewNotFoundError("group not found")
	}
	delete(f.groups, id)
	f.hardDeleted = append(f.hardDeleted, id)
	return nil
}

type fakeVenueRepo struct {
	venues map[string]*entities.VenueLocation
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: make(map[string]*entities.VenueLocation)}
}

func (f *fakeVenueRepo) Save(_ context.Context, v *entities.VenueLocation) error {
	v.GeohashPrefix = geo.CellOf(v.Latitude, v.Longitude)
	cp := *v
	f.venues[v.VenueID] = &cp
	return nil
}

func (f *fakeVenueRepo) FindByID(_ context.Context, id string) (*entities.VenueLocation, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("venue not found")
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVenueRepo) FindByCell(_ context.Context, cell string) ([]*entities.VenueLocation, error) {
	var out []*entities.VenueLocation
	for _, v := range f.venues {
		if v.GeohashPrefix == cell {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeLinkRepo struct {
	links map[string]*entities.GroupExperienceLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*entities.GroupExperienceLink)}
}

func linkKey(groupID, experienceID string) string {
	return groupID + "|" + experienceID
}

func (f *fakeLinkRepo) Link(_ context.Context, link *entities.GroupExperienceLink) error {
	key := linkKey(link.GroupID, link.ExperienceID)
	if existing, ok := f.links[key]; ok {
		link.CreatedAt = existing.CreatedAt
	} else {
		link.CreatedAt = time.Now().UTC()
	}
	cp := *link
	f.links[key] = &cp
	return nil
}

func (f *fakeLinkRepo) Unlink(_ context.Context, groupID, experienceID string) error {
	key := linkKey(groupID, experienceID)
	if _, ok := f.links[key]; !ok {
		return apperrors.NewNotFoundError("group experience link not found")
	}
	delete(f.links, key)
	return nil
}

func (f *fakeLinkRepo) FindByGroup(_ context.Context, groupID string) ([]*entities.GroupExperienceLink, error) {
	var out []*entities.GroupExperienceLink
	for _, link := range f.links {
		if link.GroupID == groupID {
			cp := *link
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) FindByExperience(_ context.Context, experienceID string) ([]*entities.GroupExperienceLink, error) {
	var out []*entities.GroupExperienceLink
	for _, link := range f.links {
		if link.ExperienceID == experienceID {
			cp := *link
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	rows    map[string]*entities.Attendance
	upserts int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: make(map[string]*entities.Attendance)}
}

func attendanceKey(userID, experienceID string) string {
	return userID + "|" + experienceID
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, a *entities.Attendance) error {
	f.upserts++
	cp := *a
	f.rows[attendanceKey(a.UserID, a.ExperienceID)] = &cp
	return nil
}

func (f *fakeAttendanceRepo) FindOne(_ context.Context, userID, experienceID string) (*entities.Attendance, error) {
	a, ok := f.rows[attendanceKey(userID, experienceID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("attendance not found")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendanceRepo) FindByUser(_ context.Context, userID string) ([]*entities.Attendance, error) {
	var out []*entities.Attendance
	for _, a := range f.rows {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindByExperience(_ context.Context, experienceID string) ([]*entities.Attendance, error) {
	var out []*entities.Attendance
	for _, a := range f.rows {
		if a.ExperienceID == experienceID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBus struct {
	published []events.DomainEvent
}

func (f *fakeBus) Publish(_ context.Context, event events.DomainEvent) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	f.published = append(f.published, batch...)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}
