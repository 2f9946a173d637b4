package entities

import (
	"errors"
	"time"
)

// Errors surfaced by group mutations. The service layer maps these onto the
// API error taxonomy.
var (
	ErrLastMember = errors.New("a group must retain at least one member")
	ErrNoMembers  = errors.New("a group requires at least one member")
)

// Group is a set of users who share experiences. The first member becomes the
// implicit owner when no owner is supplied at creation time.
type Group struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	PhotoURL    string
	Members     []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDeleted reports whether the group has been soft-deleted.
func (g *Group) IsDeleted() bool {
	return g.Status == StatusDeleted
}

// HasMember reports whether userID is a current member.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CanMutate reports whether userID may modify the group: owners and current
// members only.
func (g *Group) CanMutate(userID string) bool {
	return g.OwnerID == userID || g.HasMember(userID)
}

// AddMembers appends the given user ids, skipping ones already present.
func (g *Group) AddMembers(userIDs []string) {
	for _, id := range userIDs {
		if id == "" || g.HasMember(id) {
			continue
		}
		g.Members = append(g.Members, id)
	}
}

// RemoveMembers removes the given user ids. It refuses a removal that would
// leave the group empty and leaves the member list unchanged in that case.
func (g *Group) RemoveMembers(userIDs []string) error {
	drop := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		drop[id] = true
	}
	remaining := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if !drop[m] {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		return ErrLastMember
	}
	g.Members = remaining
	return nil
}

// Merge copies the non-zero fields of in onto g, preserving identity, owner,
// members and creation time. Membership changes go through AddMembers and
// RemoveMembers, never through Merge.
func (g *Group) Merge(in Group) {
	if in.Name != "" {
		g.Name = in.Name
	}
	if in.Description != "" {
		g.Description = in.Description
	}
	if in.PhotoURL != "" {
		g.PhotoURL = in.PhotoURL
	}
	if in.Status != "" {
		g.Status = in.Status
	}
}
