package response

import (
	"time"

	"service-marketplace/internal/data/entity"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	RequesterID        string               `json:"requester_id"`
	ProviderID         string               `json:"provider_id"`
	ServiceCategory    string               `json:"service_category"`
	ServiceDescription string               `json:"service_description"`
	RequestedDate      string               `json:"requested_date"`
	RequestedTime      string               `json:"requested_time"`
	Status             entity.BookingStatus `json:"status"`
	Budget             float64              `json:"budget"`
	FinalAmount        float64              `json:"final_amount"`
	Address            *string              `json:"address,omitempty"`
	Latitude           *float64             `json:"latitude,omitempty"`
	Longitude          *float64             `json:"longitude,omitempty"`
	AcceptedAt         *time.Time           `json:"accepted_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	RequesterNotes     *string              `json:"requester_notes,omitempty"`
	ProviderNotes      *string              `json:"provider_notes,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	Requester UserProfileResponse `json:"requester"`
	Provider  UserProfileResponse `json:"provider"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                 booking.ID.String(),
		RequesterID:        booking.RequesterID.String(),
		ProviderID:         booking.ProviderID.String(),
		ServiceCategory:    booking.ServiceCategory,
		ServiceDescription: booking.ServiceDescription,
		RequestedDate:      booking.RequestedDate.Format("2006-01-02"),
		RequestedTime:      booking.RequestedTime,
		Status:             booking.Status,
		Budget:             booking.Budget,
		FinalAmount:        booking.FinalAmount,
		Address:            booking.Address,
		Latitude:           booking.Latitude,
		Longitude:          booking.Longitude,
		AcceptedAt:         booking.AcceptedAt,
		CompletedAt:        booking.CompletedAt,
		CancelledAt:        booking.CancelledAt,
		CancellationReason: booking.CancellationReason,
		RequesterNotes:     booking.RequesterNotes,
		ProviderNotes:      booking.ProviderNotes,
		CreatedAt:          booking.CreatedAt,
	}
}

func BookingToDetailResponse(booking *entity.Booking, requester, provider *entity.User) BookingDetailResponse {
	return BookingDetailResponse{
		BookingResponse: BookingToResponse(booking),
		Requester:       UserToProfileResponse(requester),
		Provider:        UserToProfileResponse(provider),
	}
}
