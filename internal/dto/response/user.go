package response

import (
	"service-marketplace/internal/data/entity"
)

type UserProfileResponse struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	Role            string   `json:"role"`
	ServiceCategory *string  `json:"service_category,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	City            *string  `json:"city,omitempty"`
	AverageRating   float64  `json:"average_rating"`
}

func UserToProfileResponse(user *entity.User) UserProfileResponse {
	return UserProfileResponse{
		ID:              user.ID.String(),
		FullName:        user.FullName(),
		Role:            string(user.Role),
		ServiceCategory: user.ServiceCategory,
		HourlyRate:      user.HourlyRate,
		City:            user.City,
		AverageRating:   user.AverageRating,
	}
}
