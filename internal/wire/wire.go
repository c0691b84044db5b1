package wire

import (
	"net/http"

	"service-marketplace/internal/adaptor"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/middleware"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring assembles services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireBooking(r, handler.Booking, repo, config, logger)
	wirePayment(r, handler.Payment, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)
	wireSearch(r, handler.Search, repo, config, logger)
	wireNotification(r, handler.Notification, repo, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
