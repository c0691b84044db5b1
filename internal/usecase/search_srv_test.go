package usecase

import (
	"context"
	"testing"

	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/dto/request"
	"service-marketplace/pkg/apperror"
	"service-marketplace/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newSearchServiceForTest(t *testing.T) (SearchService, *testMocks) {
	t.Helper()
	repo, mocks := newTestRepository()
	config := &utils.Config{
		Platform: utils.PlatformConfig{
			SearchRadiusKm:     10,
			SearchResultCap:    100,
			SearchCandidateCap: 1000,
		},
	}
	return NewSearchService(repo, config, zap.NewNop()), mocks
}

func newProviderFixture(name string, lat, lng float64) *entity.User {
	category := "plumbing"
	city := "New York"
	return &entity.User{
		Base:            entity.Base{ID: uuid.New()},
		FirstName:       name,
		LastName:        "Provider",
		Role:            entity.RoleProvider,
		IsActive:        true,
		ServiceCategory: &category,
		City:            &city,
		Latitude:        &lat,
		Longitude:       &lng,
	}
}

func TestSearchService_FindNearbyProviders_FiltersByRadius(t *testing.T) {
	svc, mocks := newSearchServiceForTest(t)
	ctx := context.Background()

	// Center is lower Manhattan. The first provider sits under a
	// kilometre away, the second is up past White Plains.
	near := newProviderFixture("Near", 40.72, -74.01)
	far := newProviderFixture("Far", 41.0, -74.0)

	mocks.user.On("FindProvidersWithCoordinates", ctx, mock.Anything, 1000).
		Return([]*entity.User{far, near}, nil)

	results, err := svc.FindNearbyProviders(ctx, &request.NearbyProvidersRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, near.ID.String(), results[0].ID)
	assert.Less(t, results[0].DistanceKm, 1.0)
	assert.Greater(t, results[0].DistanceKm, 0.0)
}

func TestSearchService_FindNearbyProviders_SortsByDistance(t *testing.T) {
	svc, mocks := newSearchServiceForTest(t)
	ctx := context.Background()

	closest := newProviderFixture("Closest", 40.7130, -74.0061)
	middle := newProviderFixture("Middle", 40.72, -74.01)
	farthest := newProviderFixture("Farthest", 40.76, -73.98)
	radius := 20.0

	mocks.user.On("FindProvidersWithCoordinates", ctx, mock.Anything, 1000).
		Return([]*entity.User{farthest, closest, middle}, nil)

	results, err := svc.FindNearbyProviders(ctx, &request.NearbyProvidersRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
		RadiusKm:  &radius,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, closest.ID.String(), results[0].ID)
	assert.Equal(t, middle.ID.String(), results[1].ID)
	assert.Equal(t, farthest.ID.String(), results[2].ID)
	assert.True(t, results[0].DistanceKm <= results[1].DistanceKm)
	assert.True(t, results[1].DistanceKm <= results[2].DistanceKm)
}

func TestSearchService_FindNearbyProviders_CapsResults(t *testing.T) {
	repo, mocks := newTestRepository()
	config := &utils.Config{
		Platform: utils.PlatformConfig{
			SearchRadiusKm:     10,
			SearchResultCap:    2,
			SearchCandidateCap: 1000,
		},
	}
	svc := NewSearchService(repo, config, zap.NewNop())
	ctx := context.Background()

	providers := []*entity.User{
		newProviderFixture("A", 40.713, -74.006),
		newProviderFixture("B", 40.714, -74.006),
		newProviderFixture("C", 40.715, -74.006),
		newProviderFixture("D", 40.716, -74.006),
	}
	mocks.user.On("FindProvidersWithCoordinates", ctx, mock.Anything, 1000).
		Return(providers, nil)

	results, err := svc.FindNearbyProviders(ctx, &request.NearbyProvidersRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	// The cap keeps the nearest entries.
	assert.Equal(t, providers[0].ID.String(), results[0].ID)
	assert.Equal(t, providers[1].ID.String(), results[1].ID)
}

func TestSearchService_FindNearbyProviders_RejectsBadRadius(t *testing.T) {
	svc, mocks := newSearchServiceForTest(t)

	radius := -5.0
	_, err := svc.FindNearbyProviders(context.Background(), &request.NearbyProvidersRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
		RadiusKm:  &radius,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	mocks.user.AssertNotCalled(t, "FindProvidersWithCoordinates", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchService_SearchProviders_PassesFilter(t *testing.T) {
	svc, mocks := newSearchServiceForTest(t)
	ctx := context.Background()

	category := "plumbing"
	minRating := 4.0
	provider := newProviderFixture("Match", 40.72, -74.01)

	mocks.user.On("SearchProviders", ctx, repository.ProviderFilter{
		Category:  &category,
		MinRating: &minRating,
	}, 10, 0).Return([]*entity.User{provider}, nil)
	mocks.user.On("CountProviders", ctx, repository.ProviderFilter{
		Category:  &category,
		MinRating: &minRating,
	}).Return(int64(1), nil)

	result, err := svc.SearchProviders(ctx, &request.SearchProvidersRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Category:         &category,
		MinRating:        &minRating,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Pagination.Total)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, provider.ID.String(), result.Data[0].ID)
}

func TestSearchService_GetMapProviders(t *testing.T) {
	svc, mocks := newSearchServiceForTest(t)
	ctx := context.Background()

	provider := newProviderFixture("Mapped", 40.72, -74.01)
	mocks.user.On("FindProvidersWithCoordinates", ctx, mock.Anything, 1000).
		Return([]*entity.User{provider}, nil)

	results, err := svc.GetMapProviders(ctx, nil)

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 40.72, results[0].Latitude)
}
