package response

import (
	"service-marketplace/internal/data/entity"
)

type ProviderSearchResponse struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	ServiceCategory *string  `json:"service_category,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	City            *string  `json:"city,omitempty"`
	AverageRating   float64  `json:"average_rating"`
}

type NearbyProviderResponse struct {
	ProviderSearchResponse
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

type MapProviderResponse struct {
	ID            string   `json:"id"`
	FullName      string   `json:"full_name"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	City          *string  `json:"city,omitempty"`
	AverageRating float64  `json:"average_rating"`
	HourlyRate    *float64 `json:"hourly_rate,omitempty"`
}

// Helper converters
func ProviderToSearchResponse(provider *entity.User) ProviderSearchResponse {
	return ProviderSearchResponse{
		ID:              provider.ID.String(),
		FullName:        provider.FullName(),
		ServiceCategory: provider.ServiceCategory,
		HourlyRate:      provider.HourlyRate,
		City:            provider.City,
		AverageRating:   provider.AverageRating,
	}
}

func ProviderToNearbyResponse(provider *entity.User, distanceKm float64) NearbyProviderResponse {
	return NearbyProviderResponse{
		ProviderSearchResponse: ProviderToSearchResponse(provider),
		Latitude:               *provider.Latitude,
		Longitude:              *provider.Longitude,
		DistanceKm:             distanceKm,
	}
}

func ProviderToMapResponse(provider *entity.User) MapProviderResponse {
	return MapProviderResponse{
		ID:            provider.ID.String(),
		FullName:      provider.FullName(),
		Latitude:      *provider.Latitude,
		Longitude:     *provider.Longitude,
		City:          provider.City,
		AverageRating: provider.AverageRating,
		HourlyRate:    provider.HourlyRate,
	}
}
