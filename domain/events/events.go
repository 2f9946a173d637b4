package events

import "time"

// Source identifies this service on the event bus.
const Source = "gatherly.backend"

// Event detail types emitted after successful writes.
const (
	TypeProfileSaved      = "profile.saved"
	TypeExperienceSaved   = "experience.saved"
	TypeExperienceDeleted = "experience.deleted"
	TypeGroupSaved        = "group.saved"
	TypeGroupDeleted      = "group.deleted"
	TypeGroupLinked       = "group.experience.linked"
	TypeGroupUnlinked     = "group.experience.unlinked"
	TypeAttendanceUpdated = "attendance.updated"
)

// DomainEvent is a notification about a completed entity write. Publication
// is best effort; consumers must tolerate missing events.
type DomainEvent struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityId"`
	UserID     string    `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds a DomainEvent stamped with the current instant.
func New(eventType, entityID, userID string) DomainEvent {
	return DomainEvent{
		Type:       eventType,
		EntityID:   entityID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}
