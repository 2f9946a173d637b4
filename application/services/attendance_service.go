package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	"gatherly-backend/domain/events"
	apperrors "gatherly-backend/pkg/errors"
)

// AttendanceService manages the user↔experience attendance rows. Each write
// updates one signal and leaves the others as stored, so interest and
// payment survive each other.
type AttendanceService struct {
	attendance  ports.UserExperienceRepository
	experiences ports.ExperienceRepository
	bus         ports.EventBus
	logger      *zap.Logger
}

// NewAttendanceService creates an attendance service.
func NewAttendanceService(
	attendance ports.UserExperienceRepository,
	experiences ports.ExperienceRepository,
	bus ports.EventBus,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendance:  attendance,
		experiences: experiences,
		bus:         bus,
		logger:      logger,
	}
}

// MarkInterest records whether the caller is interested in an experience.
// Repeating the same call rewrites the same row.
func (s *AttendanceService) MarkInterest(ctx context.Context, userID, experienceID string, interested bool) (*entities.Attendance, error) {
	current, err := s.loadRow(ctx, userID, experienceID)
	if err != nil {
		return nil, err
	}

	current.Interested = aws.Bool(interested)
	if err := s.attendance.Upsert(ctx, current); err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeAttendanceUpdated, experienceID, userID))
	return current, nil
}

// MarkPayment records a completed payment for an experience, which makes the
// caller an attendee regardless of the older signals.
func (s *AttendanceService) MarkPayment(ctx context.Context, userID, experienceID string, payment *entities.PaymentDetails) (*entities.Attendance, error) {
	if payment == nil {
		return nil, apperrors.NewValidationError("payment details are required")
	}

	current, err := s.loadRow(ctx, userID, experienceID)
	if err != nil {
		return nil, err
	}

	current.Paid = aws.Bool(true)
	current.Payment = payment
	if err := s.attendance.Upsert(ctx, current); err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeAttendanceUpdated, experienceID, userID))
	return current, nil
}

// FindInterestedUsers returns the ids of users interested in an experience.
func (s *AttendanceService) FindInterestedUsers(ctx context.Context, experienceID string) ([]string, error) {
	rows, err := s.attendance.FindByExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(rows))
	for _, a := range rows {
		if a.IsInterested() {
			users = append(users, a.UserID)
		}
	}
	return users, nil
}

// FindAttendedUsers returns the ids of users attending an experience.
func (s *AttendanceService) FindAttendedUsers(ctx context.Context, experienceID string) ([]string, error) {
	rows, err := s.attendance.FindByExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(rows))
	for _, a := range rows {
		if a.IsAttending() {
			users = append(users, a.UserID)
		}
	}
	return users, nil
}

// loadRow fetches the existing attendance row for the pair, or a fresh one,
// after checking that the experience is live.
func (s *AttendanceService) loadRow(ctx context.Context, userID, experienceID string) (*entities.Attendance, error) {
	e, err := s.experiences.FindByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}
	if e.IsDeleted() {
		return nil, apperrors.NewNotFoundError("experience not found")
	}

	current, err := s.attendance.FindOne(ctx, userID, experienceID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
		current = &entities.Attendance{
			UserID:       userID,
			ExperienceID: experienceID,
		}
	}
	return current, nil
}
