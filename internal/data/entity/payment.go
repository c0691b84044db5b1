package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is one settlement instance for a booking. commission and
// provider_payout always sum to amount; payout is derived by subtraction
// so the invariant holds exactly after rounding the commission.
type Payment struct {
	Base
	BookingID      uuid.UUID     `db:"booking_id"`
	RequesterID    uuid.UUID     `db:"requester_id"`
	ProviderID     uuid.UUID     `db:"provider_id"`
	Amount         float64       `db:"amount"`
	Commission     float64       `db:"commission"`
	ProviderPayout float64       `db:"provider_payout"`
	PaymentMethod  string        `db:"payment_method"`
	TransactionID  string        `db:"transaction_id"`
	Status         PaymentStatus `db:"status"`
	PaymentDate    time.Time     `db:"payment_date"`
	PayoutDate     *time.Time    `db:"payout_date"`
}
