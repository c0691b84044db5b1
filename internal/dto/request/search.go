package request

type SearchProvidersRequest struct {
	PaginatedRequest
	Category      *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	City          *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	MinRating     *float64 `json:"min_rating,omitempty" validate:"omitempty,min=0,max=5"`
	MaxHourlyRate *float64 `json:"max_hourly_rate,omitempty" validate:"omitempty,gt=0"`
}

type NearbyProvidersRequest struct {
	Latitude  float64  `json:"latitude" validate:"required,latitude"`
	Longitude float64  `json:"longitude" validate:"required,longitude"`
	RadiusKm  *float64 `json:"radius_km,omitempty" validate:"omitempty,gt=0,max=500"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,max=100"`
}
