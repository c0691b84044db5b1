package response

import (
	"time"

	"service-marketplace/internal/data/entity"
)

type PaymentResponse struct {
	ID             string               `json:"id"`
	BookingID      string               `json:"booking_id"`
	RequesterID    string               `json:"requester_id"`
	ProviderID     string               `json:"provider_id"`
	Amount         float64              `json:"amount"`
	Commission     float64              `json:"commission"`
	ProviderPayout float64              `json:"provider_payout"`
	PaymentMethod  string               `json:"payment_method"`
	TransactionID  string               `json:"transaction_id"`
	Status         entity.PaymentStatus `json:"status"`
	PaymentDate    time.Time            `json:"payment_date"`
	PayoutDate     *time.Time           `json:"payout_date,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type ReceiptResponse struct {
	Payment       PaymentResponse `json:"payment"`
	Booking       BookingResponse `json:"booking"`
	RequesterName string          `json:"requester_name"`
	ProviderName  string          `json:"provider_name"`
}

type EarningsSummaryResponse struct {
	TotalGross       float64 `json:"total_gross"`
	TotalCommission  float64 `json:"total_commission"`
	TotalPayout      float64 `json:"total_payout"`
	TransactionCount int64   `json:"transaction_count"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
}

// Helper converter
func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID.String(),
		BookingID:      payment.BookingID.String(),
		RequesterID:    payment.RequesterID.String(),
		ProviderID:     payment.ProviderID.String(),
		Amount:         payment.Amount,
		Commission:     payment.Commission,
		ProviderPayout: payment.ProviderPayout,
		PaymentMethod:  payment.PaymentMethod,
		TransactionID:  payment.TransactionID,
		Status:         payment.Status,
		PaymentDate:    payment.PaymentDate,
		PayoutDate:     payment.PayoutDate,
		CreatedAt:      payment.CreatedAt,
	}
}
