package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), mustStay(t, 1, 3), 2, 1, 200)
	require.NoError(t, err)
	return bk
}

func TestNewBooking_Validation(t *testing.T) {
	stay := StayRange{CheckIn: day(1), CheckOut: day(2)}

	_, err := NewBooking(uuid.Nil, uuid.New(), uuid.New(), stay, 1, 1, 10)
	assert.Error(t, err)
	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), stay, 0, 1, 10)
	assert.Error(t, err)
	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), stay, 1, 0, 10)
	assert.Error(t, err)

	inverted := StayRange{CheckIn: day(2), CheckOut: day(1)}
	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), inverted, 1, 1, 10)
	assert.Equal(t, domain.KindInvalidRange, domain.KindOf(err))
}

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPendingPayment, StatusConfirmed, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusPendingPayment, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPendingPayment, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestBooking_ConfirmThenComplete(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, PaymentCompleted, bk.PaymentStatus())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
	assert.NotNil(t, bk.CompletedAt())
	assert.False(t, bk.Holding().Status.HoldsInventory())
}

func TestBooking_Cancel(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel())
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.NotNil(t, bk.CancelledAt())

	err := bk.Cancel()
	require.Error(t, err)
	assert.Equal(t, "Booking is already cancelled", err.Error())
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestBooking_CannotCancelCompleted(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())
	require.NoError(t, bk.Complete())

	err := bk.Cancel()
	require.Error(t, err)
	assert.Equal(t, "Cannot cancel completed booking", err.Error())
}

func TestBooking_TransitionTo(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.TransitionTo(StatusPendingPayment), "same status is a no-op")
	assert.Error(t, bk.TransitionTo(StatusCompleted))
	require.NoError(t, bk.TransitionTo(StatusConfirmed))
	require.NoError(t, bk.TransitionTo(StatusCancelled))
	assert.Error(t, bk.TransitionTo(StatusConfirmed))
}

func TestBooking_SetPaymentStatus(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.SetPaymentStatus(PaymentRefunded))
	assert.Equal(t, PaymentRefunded, bk.PaymentStatus())
	assert.Error(t, bk.SetPaymentStatus("BOGUS"))
}

func TestBooking_Ownership(t *testing.T) {
	bk := newTestBooking(t)
	assert.True(t, bk.IsOwnedBy(bk.UserID()))
	assert.False(t, bk.IsOwnedBy(uuid.New()))
}

func TestParseStatuses(t *testing.T) {
	s, err := ParseBookingStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)
	_, err = ParseBookingStatus("confirmed")
	assert.Error(t, err)

	p, err := ParsePaymentStatus("FAILED")
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, p)
	_, err = ParsePaymentStatus("")
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"PENDING_PAYMENT", "CONFIRMED"}, HoldingStatuses())
}
