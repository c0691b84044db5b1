package response

import (
	"time"

	"service-marketplace/internal/data/entity"
)

type ReviewResponse struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"booking_id"`
	RequesterID   string     `json:"requester_id"`
	RequesterName string     `json:"requester_name,omitempty"`
	ProviderID    string     `json:"provider_id"`
	Rating        int        `json:"rating"`
	ReviewText    *string    `json:"review_text,omitempty"`
	ResponseText  *string    `json:"response_text,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	IsEdited      bool       `json:"is_edited"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ProviderRatingStats struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// Helper converter
func ReviewToResponse(review *entity.Review, requesterName string) ReviewResponse {
	return ReviewResponse{
		ID:            review.ID.String(),
		BookingID:     review.BookingID.String(),
		RequesterID:   review.RequesterID.String(),
		RequesterName: requesterName,
		ProviderID:    review.ProviderID.String(),
		Rating:        review.Rating,
		ReviewText:    review.ReviewText,
		ResponseText:  review.ResponseText,
		RespondedAt:   review.RespondedAt,
		IsEdited:      review.IsEdited,
		CreatedAt:     review.CreatedAt,
	}
}
