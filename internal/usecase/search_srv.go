package usecase

import (
	"context"
	"fmt"
	"sort"

	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/dto/response"
	"service-marketplace/pkg/apperror"
	"service-marketplace/pkg/geo"
	"service-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type SearchService interface {
	SearchProviders(ctx context.Context, req *request.SearchProvidersRequest) (*response.PaginatedResponse[response.ProviderSearchResponse], error)
	FindNearbyProviders(ctx context.Context, req *request.NearbyProvidersRequest) ([]response.NearbyProviderResponse, error)
	GetMapProviders(ctx context.Context, category *string) ([]response.MapProviderResponse, error)
}

type searchService struct {
	repo            *repository.Repository
	defaultRadiusKm float64
	resultCap       int
	candidateCap    int
	log             *zap.Logger
}

func NewSearchService(repo *repository.Repository, config *utils.Config, log *zap.Logger) SearchService {
	return &searchService{
		repo:            repo,
		defaultRadiusKm: config.Platform.SearchRadiusKm,
		resultCap:       config.Platform.SearchResultCap,
		candidateCap:    config.Platform.SearchCandidateCap,
		log:             log.With(zap.String("service", "search")),
	}
}

func (s *searchService) SearchProviders(ctx context.Context, req *request.SearchProvidersRequest) (*response.PaginatedResponse[response.ProviderSearchResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Provider search validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	filter := repository.ProviderFilter{
		Category:      req.Category,
		City:          req.City,
		MinRating:     req.MinRating,
		MaxHourlyRate: req.MaxHourlyRate,
	}

	providers, err := s.repo.User.SearchProviders(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("search providers: %w", err)
	}

	total, err := s.repo.User.CountProviders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count providers: %w", err)
	}

	items := make([]response.ProviderSearchResponse, len(providers))
	for i, provider := range providers {
		items[i] = response.ProviderToSearchResponse(provider)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *searchService) FindNearbyProviders(ctx context.Context, req *request.NearbyProvidersRequest) ([]response.NearbyProviderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Nearby search validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	radiusKm := s.defaultRadiusKm
	if req.RadiusKm != nil {
		radiusKm = *req.RadiusKm
	}

	filter := repository.ProviderFilter{Category: req.Category}
	candidates, err := s.repo.User.FindProvidersWithCoordinates(ctx, filter, s.candidateCap)
	if err != nil {
		return nil, fmt.Errorf("load nearby candidates: %w", err)
	}

	// Providers without coordinates never reach this point; the store
	// already excludes them.
	results := make([]response.NearbyProviderResponse, 0, len(candidates))
	for _, provider := range candidates {
		distance := geo.HaversineKm(req.Latitude, req.Longitude, *provider.Latitude, *provider.Longitude)
		if distance > radiusKm {
			continue
		}
		results = append(results, response.ProviderToNearbyResponse(provider, utils.Round2(distance)))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if len(results) > s.resultCap {
		results = results[:s.resultCap]
	}

	s.log.Debug("Nearby search complete",
		zap.Float64("lat", req.Latitude),
		zap.Float64("lng", req.Longitude),
		zap.Float64("radius_km", radiusKm),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

func (s *searchService) GetMapProviders(ctx context.Context, category *string) ([]response.MapProviderResponse, error) {
	filter := repository.ProviderFilter{Category: category}

	providers, err := s.repo.User.FindProvidersWithCoordinates(ctx, filter, s.candidateCap)
	if err != nil {
		return nil, fmt.Errorf("load map providers: %w", err)
	}

	results := make([]response.MapProviderResponse, len(providers))
	for i, provider := range providers {
		results[i] = response.ProviderToMapResponse(provider)
	}

	return results, nil
}
