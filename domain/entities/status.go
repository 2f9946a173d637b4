package entities

// EntityType discriminates rows that share a partition in the single table.
type EntityType string

const (
	EntityProfile         EntityType = "PROFILE"
	EntityExperience      EntityType = "EXPERIENCE"
	EntityGroup           EntityType = "GROUP"
	EntityVenue           EntityType = "VENUE"
	EntityGroupExperience EntityType = "GROUP_EXPERIENCE"
	EntityUserExperience  EntityType = "USER_EXPERIENCE"
)

// Lifecycle statuses for profiles and groups. Soft delete flips the status;
// rows are never physically removed except for explicit hard deletes.
const (
	StatusActive  = "ACTIVE"
	StatusDeleted = "DELETED"
)

// Experience lifecycle statuses.
const (
	ExperienceDraft     = "DRAFT"
	ExperiencePublished = "PUBLISHED"
	ExperienceDeleted   = "DELETED"
)

// Attendance statuses carried on user-experience join rows. These are the
// legacy third signal behind the Paid flag and the payment details.
const (
	AttendanceInterested = "INTERESTED"
	AttendancePaid       = "PAID"
	AttendanceAttended   = "ATTENDED"
)
