package wire

import (
	"service-marketplace/internal/adaptor"
	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSearch(
	r chi.Router,
	searchHandler *adaptor.SearchHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/providers - Filtered provider listing
	r.Get("/api/providers", searchHandler.SearchProviders)

	// GET /api/providers/nearby - Proximity search around a point
	r.Get("/api/providers/nearby", searchHandler.FindNearbyProviders)

	// GET /api/providers/map - Providers with coordinates for the map
	r.Get("/api/providers/map", searchHandler.GetMapProviders)
}
