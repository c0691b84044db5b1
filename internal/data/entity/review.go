package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a requester's rating of a completed booking, at most one per
// booking. Deleting a review only clears is_visible; the row is kept so
// the rating aggregate stays reconstructible from history.
type Review struct {
	Base
	BookingID    uuid.UUID  `db:"booking_id"`
	RequesterID  uuid.UUID  `db:"requester_id"`
	ProviderID   uuid.UUID  `db:"provider_id"`
	Rating       int        `db:"rating"` // 1-5
	ReviewText   *string    `db:"review_text"`
	ResponseText *string    `db:"response_text"`
	RespondedAt  *time.Time `db:"responded_at"`
	IsVisible    bool       `db:"is_visible"`
	IsEdited     bool       `db:"is_edited"`
}
