package entities

import "time"

// PaymentDetails is the optional payment record attached to an attendance row.
type PaymentDetails struct {
	Reference string
	Amount    float64
	Currency  string
	Method    string
	PaidAt    string
}

// Attendance is the user↔experience join row. It carries three historically
// independent signals of the same fact: the Interested flag, the Paid flag
// plus payment details, and the legacy Status enum. One row exists per
// (user, experience) pair; rows are overwritten, never deleted.
type Attendance struct {
	UserID       string
	ExperienceID string
	Interested   *bool
	Paid         *bool
	Status       string
	Payment      *PaymentDetails
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAttending resolves the attendance truth table. Signal precedence is
// fixed: the Paid flag wins when set, payment details presence next, the
// Status enum last.
func (a *Attendance) IsAttending() bool {
	if a.Paid != nil {
		return *a.Paid
	}
	if a.Payment != nil {
		return true
	}
	return a.Status == AttendancePaid || a.Status == AttendanceAttended
}

// IsInterested resolves the interest signal: the explicit flag when present,
// otherwise the legacy INTERESTED status.
func (a *Attendance) IsInterested() bool {
	if a.Interested != nil {
		return *a.Interested
	}
	return a.Status == AttendanceInterested
}
