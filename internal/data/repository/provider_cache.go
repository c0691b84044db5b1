package repository

import (
	"context"
	"fmt"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/cache"

	"github.com/google/uuid"
)

// cachedUserRepository layers a read-through cache over the provider
// directory queries. Writes that affect provider aggregates invalidate
// the directory keys so searches never serve stale earnings or ratings
// for longer than the configured TTL.
type cachedUserRepository struct {
	UserRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedUserRepository(inner UserRepository, c cache.Cache, ttl time.Duration) UserRepository {
	return &cachedUserRepository{
		UserRepository: inner,
		cache:          c,
		ttl:            ttl,
	}
}

func providerFilterKey(prefix string, filter ProviderFilter, limit, offset int) string {
	category, city := "", ""
	minRating, maxRate := -1.0, -1.0
	if filter.Category != nil {
		category = *filter.Category
	}
	if filter.City != nil {
		city = *filter.City
	}
	if filter.MinRating != nil {
		minRating = *filter.MinRating
	}
	if filter.MaxHourlyRate != nil {
		maxRate = *filter.MaxHourlyRate
	}
	return fmt.Sprintf("%s:%s:%s:%.2f:%.2f:%d:%d", prefix, category, city, minRating, maxRate, limit, offset)
}

func (r *cachedUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	key := "user:" + id.String()

	var cached entity.User
	if r.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}

	r.cache.Set(ctx, key, user, r.ttl)
	return user, nil
}

func (r *cachedUserRepository) SearchProviders(ctx context.Context, filter ProviderFilter, limit, offset int) ([]*entity.User, error) {
	key := providerFilterKey("providers:search", filter, limit, offset)

	var cached []*entity.User
	if r.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	providers, err := r.UserRepository.SearchProviders(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, providers, r.ttl)
	return providers, nil
}

func (r *cachedUserRepository) IncrementEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	if err := r.UserRepository.IncrementEarnings(ctx, id, amount); err != nil {
		return err
	}
	r.cache.Delete(ctx, "user:"+id.String())
	return nil
}

func (r *cachedUserRepository) SetAverageRating(ctx context.Context, id uuid.UUID, rating float64) error {
	if err := r.UserRepository.SetAverageRating(ctx, id, rating); err != nil {
		return err
	}
	r.cache.Delete(ctx, "user:"+id.String())
	return nil
}
