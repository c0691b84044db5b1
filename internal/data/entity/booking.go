package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// bookingTransitions is the lifecycle state machine. Rejected, completed
// and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusAccepted:   {BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusRejected,
		BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	Base
	RequesterID        uuid.UUID     `db:"requester_id"`
	ProviderID         uuid.UUID     `db:"provider_id"`
	ServiceCategory    string        `db:"service_category"`
	ServiceDescription string        `db:"service_description"`
	RequestedDate      time.Time     `db:"requested_date"`
	RequestedTime      string        `db:"requested_time"`
	Status             BookingStatus `db:"status"`
	Budget             float64       `db:"budget"`
	FinalAmount        float64       `db:"final_amount"`
	Address            *string       `db:"address"`
	Latitude           *float64      `db:"latitude"`
	Longitude          *float64      `db:"longitude"`
	AcceptedAt         *time.Time    `db:"accepted_at"`
	CompletedAt        *time.Time    `db:"completed_at"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	CancellationReason *string       `db:"cancellation_reason"`
	RequesterNotes     *string       `db:"requester_notes"`
	ProviderNotes      *string       `db:"provider_notes"`
}

// IsParty reports whether the user is one of the two parties on the booking.
func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.RequesterID == userID || b.ProviderID == userID
}

// SettlementAmount is the amount a payment for this booking settles:
// the negotiated final amount when set, otherwise the original budget.
func (b *Booking) SettlementAmount() float64 {
	if b.FinalAmount > 0 {
		return b.FinalAmount
	}
	return b.Budget
}
