package request

type CreateReviewRequest struct {
	BookingID  string  `json:"booking_id" validate:"required,uuid4"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating     *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=2000"`
}

type RespondReviewRequest struct {
	ResponseText string `json:"response_text" validate:"required,min=1,max=2000"`
}
