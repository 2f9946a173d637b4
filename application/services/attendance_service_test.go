package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

func newAttendanceFixture() (*AttendanceService, *fakeAttendanceRepo, *fakeExperienceRepo, *fakeBus) {
	attendance := newFakeAttendanceRepo()
	experiences := newFakeExperienceRepo()
	bus := &fakeBus{}
	svc := NewAttendanceService(attendance, experiences, bus, zap.NewNop())
	return svc, attendance, experiences, bus
}

func TestMarkInterestCreatesRow(t *testing.T) {
	svc, attendance, experiences, bus := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))

	row, err := svc.MarkInterest(ctx, "u1", "e1", true)

	require.NoError(t, err)
	assert.True(t, row.IsInterested())
	assert.False(t, row.IsAttending())
	assert.Equal(t, 1, attendance.upserts)
	assert.Len(t, bus.published, 1)
}

func TestMarkInterestWithdrawal(t *testing.T) {
	svc, _, experiences, _ := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))

	_, err := svc.MarkInterest(ctx, "u1", "e1", true)
	require.NoError(t, err)
	row, err := svc.MarkInterest(ctx, "u1", "e1", false)

	require.NoError(t, err)
	assert.False(t, row.IsInterested())
}

func TestMarkPaymentPreservesInterest(t *testing.T) {
	svc, _, experiences, _ := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))
	_, err := svc.MarkInterest(ctx, "u1", "e1", true)
	require.NoError(t, err)

	row, err := svc.MarkPayment(ctx, "u1", "e1", &entities.PaymentDetails{
		Reference: "pay-123",
		Amount:    25,
		Currency:  "EUR",
		Method:    "card",
		PaidAt:    "2025-06-01T12:00:00Z",
	})

	require.NoError(t, err)
	assert.True(t, row.IsAttending())
	assert.True(t, row.IsInterested(), "earlier interest survives the payment write")
	require.NotNil(t, row.Payment)
	assert.Equal(t, "pay-123", row.Payment.Reference)
}

func TestMarkPaymentRequiresDetails(t *testing.T) {
	svc, _, experiences, _ := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))

	_, err := svc.MarkPayment(ctx, "u1", "e1", nil)

	assert.True(t, apperrors.IsValidation(err))
}

func TestMarkInterestOnDeletedExperience(t *testing.T) {
	svc, _, experiences, _ := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "gone", Status: entities.ExperienceDeleted}))

	_, err := svc.MarkInterest(ctx, "u1", "gone", true)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.MarkInterest(ctx, "u1", "missing", true)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFindInterestedAndAttendedUsers(t *testing.T) {
	svc, attendance, experiences, _ := newAttendanceFixture()
	ctx := context.Background()
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))

	rows := []*entities.Attendance{
		{UserID: "interested", ExperienceID: "e1", Interested: boolPtr(true)},
		{UserID: "paid", ExperienceID: "e1", Paid: boolPtr(true)},
		{UserID: "legacy", ExperienceID: "e1", Status: entities.AttendancePaid},
		{UserID: "declined", ExperienceID: "e1", Paid: boolPtr(false), Status: entities.AttendancePaid},
	}
	for _, r := range rows {
		require.NoError(t, attendance.Upsert(ctx, r))
	}

	interested, err := svc.FindInterestedUsers(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"interested"}, interested)

	attended, err := svc.FindAttendedUsers(ctx, "e1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"paid", "legacy"}, attended)
}
