package adaptor

import (
	"net/http"
	"strconv"

	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type SearchHandler struct {
	service usecase.SearchService
	log     *zap.Logger
}

func NewSearchHandler(service usecase.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log.With(zap.String("handler", "search")),
	}
}

// SearchProviders handles GET /api/providers (public)
func (h *SearchHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.SearchProvidersRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Category:      optionalString(query.Get("category")),
		City:          optionalString(query.Get("city")),
		MinRating:     optionalFloat(query.Get("min_rating")),
		MaxHourlyRate: optionalFloat(query.Get("max_hourly_rate")),
	}

	providers, err := h.service.SearchProviders(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "search providers")
		return
	}

	utils.ResponseSuccess(w, "success", providers)
}

// FindNearbyProviders handles GET /api/providers/nearby (public)
func (h *SearchHandler) FindNearbyProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.ResponseBadRequest(w, "lat and lng query parameters are required", nil)
		return
	}

	req := &request.NearbyProvidersRequest{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  optionalFloat(query.Get("radius_km")),
		Category:  optionalString(query.Get("category")),
	}

	providers, err := h.service.FindNearbyProviders(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "find nearby providers")
		return
	}

	utils.ResponseSuccess(w, "success", providers)
}

// GetMapProviders handles GET /api/providers/map (public)
func (h *SearchHandler) GetMapProviders(w http.ResponseWriter, r *http.Request) {
	category := optionalString(r.URL.Query().Get("category"))

	providers, err := h.service.GetMapProviders(r.Context(), category)
	if err != nil {
		handleServiceError(h.log, w, err, "get map providers")
		return
	}

	utils.ResponseSuccess(w, "success", providers)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
