package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestIsAttendingPrecedence(t *testing.T) {
	tests := []struct {
		name string
		a    Attendance
		want bool
	}{
		{"paid flag true", Attendance{Paid: boolPtr(true)}, true},
		{"paid flag false overrides payment details", Attendance{Paid: boolPtr(false), Payment: &PaymentDetails{Reference: "r1"}}, false},
		{"paid flag false overrides status", Attendance{Paid: boolPtr(false), Status: AttendancePaid}, false},
		{"payment details without flag", Attendance{Payment: &PaymentDetails{Reference: "r1"}}, true},
		{"status PAID", Attendance{Status: AttendancePaid}, true},
		{"status ATTENDED", Attendance{Status: AttendanceAttended}, true},
		{"status INTERESTED is not attending", Attendance{Status: AttendanceInterested}, false},
		{"no signals", Attendance{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsAttending())
		})
	}
}

func TestIsInterested(t *testing.T) {
	tests := []struct {
		name string
		a    Attendance
		want bool
	}{
		{"flag true", Attendance{Interested: boolPtr(true)}, true},
		{"flag false overrides legacy status", Attendance{Interested: boolPtr(false), Status: AttendanceInterested}, false},
		{"legacy status only", Attendance{Status: AttendanceInterested}, true},
		{"paid status is not interest", Attendance{Status: AttendancePaid}, false},
		{"no signals", Attendance{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsInterested())
		})
	}
}
