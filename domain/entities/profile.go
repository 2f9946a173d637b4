package entities

import "time"

// Profile is a user profile. The physical table may hold multiple historical
// rows per user id; the latest sort-key row is the canonical one.
type Profile struct {
	UserID    string
	FullName  string
	Email     string
	Bio       string
	PhotoURL  string
	Interests []string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted reports whether the profile has been soft-deleted.
func (p *Profile) IsDeleted() bool {
	return p.Status == StatusDeleted
}

// Merge copies the non-zero fields of in onto p. Identity and creation time
// are never overwritten; callers must fetch-merge-save rather than overwrite
// blindly.
func (p *Profile) Merge(in Profile) {
	if in.FullName != "" {
		p.FullName = in.FullName
	}
	if in.Email != "" {
		p.Email = in.Email
	}
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.PhotoURL != "" {
		p.PhotoURL = in.PhotoURL
	}
	if in.Interests != nil {
		p.Interests = in.Interests
	}
	if in.Status != "" {
		p.Status = in.Status
	}
}
