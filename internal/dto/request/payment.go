package request

type ProcessPaymentRequest struct {
	BookingID     string `json:"booking_id" validate:"required,uuid4"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card bank_transfer wallet cash"`
}

type EarningsSummaryRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}
