package request

type CreateBookingRequest struct {
	ProviderID         string   `json:"provider_id" validate:"required,uuid4"`
	ServiceCategory    string   `json:"service_category" validate:"required,min=2,max=100"`
	ServiceDescription string   `json:"service_description" validate:"required,min=10,max=2000"`
	RequestedDate      string   `json:"requested_date" validate:"required,datetime=2006-01-02"`
	RequestedTime      string   `json:"requested_time" validate:"required,datetime=15:04"`
	Budget             float64  `json:"budget" validate:"required,gt=0"`
	Address            *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Latitude           *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude          *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RequesterNotes     *string  `json:"requester_notes,omitempty" validate:"omitempty,max=1000"`
}

type RejectBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending accepted rejected in-progress completed cancelled"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected in-progress completed cancelled"`
}
