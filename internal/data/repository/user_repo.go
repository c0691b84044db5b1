package repository

import (
	"context"
	"fmt"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ProviderFilter is the predicate conjunction applied to provider listing
// before any distance filtering. All filters are independent.
type ProviderFilter struct {
	Category      *string
	City          *string
	MinRating     *float64
	MaxHourlyRate *float64
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	IsActiveProvider(ctx context.Context, id uuid.UUID) (bool, error)

	// Derived-aggregate writes. IncrementEarnings is an atomic in-place
	// addition so concurrent settlements never lose updates.
	IncrementEarnings(ctx context.Context, id uuid.UUID, amount float64) error
	SetAverageRating(ctx context.Context, id uuid.UUID, rating float64) error

	// Provider directory reads
	SearchProviders(ctx context.Context, filter ProviderFilter, limit, offset int) ([]*entity.User, error)
	CountProviders(ctx context.Context, filter ProviderFilter) (int64, error)
	FindProvidersWithCoordinates(ctx context.Context, filter ProviderFilter, limit int) ([]*entity.User, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, first_name, last_name, phone, role, is_active,
	       service_category, hourly_rate, city, latitude, longitude,
	       average_rating, total_earnings, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&user.IsActive,
		&user.ServiceCategory,
		&user.HourlyRate,
		&user.City,
		&user.Latitude,
		&user.Longitude,
		&user.AverageRating,
		&user.TotalEarnings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (r *userRepository) IsActiveProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = 'provider' AND is_active)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check active provider",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("check active provider %s: %w", id.String(), err)
	}

	return exists, nil
}

func (r *userRepository) IncrementEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `
		UPDATE users
		SET total_earnings = total_earnings + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to increment earnings",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Float64("amount", amount),
		)
		return fmt.Errorf("increment earnings for %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (r *userRepository) SetAverageRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `UPDATE users SET average_rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, rating)
	if err != nil {
		r.log.Error("Failed to set average rating",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Float64("rating", rating),
		)
		return fmt.Errorf("set average rating for %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

// providerWhere builds the provider listing predicate. Conditions are
// appended with positional args starting after the fixed role/active check.
func providerWhere(filter ProviderFilter) (string, []any) {
	where := `WHERE role = 'provider' AND is_active`
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		where += fmt.Sprintf(" AND service_category = $%d", len(args))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		where += fmt.Sprintf(" AND city ILIKE $%d", len(args))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		where += fmt.Sprintf(" AND average_rating >= $%d", len(args))
	}
	if filter.MaxHourlyRate != nil {
		args = append(args, *filter.MaxHourlyRate)
		where += fmt.Sprintf(" AND hourly_rate <= $%d", len(args))
	}

	return where, args
}

func (r *userRepository) SearchProviders(ctx context.Context, filter ProviderFilter, limit, offset int) ([]*entity.User, error) {
	where, args := providerWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY average_rating DESC, created_at LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search providers", zap.Error(err))
		return nil, fmt.Errorf("search providers: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan provider row", zap.Error(err))
			return nil, fmt.Errorf("scan provider row: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *userRepository) CountProviders(ctx context.Context, filter ProviderFilter) (int64, error) {
	where, args := providerWhere(filter)
	query := `SELECT COUNT(*) FROM users ` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count providers", zap.Error(err))
		return 0, fmt.Errorf("count providers: %w", err)
	}

	return count, nil
}

func (r *userRepository) FindProvidersWithCoordinates(ctx context.Context, filter ProviderFilter, limit int) ([]*entity.User, error) {
	where, args := providerWhere(filter)
	where += " AND latitude IS NOT NULL AND longitude IS NOT NULL"
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at LIMIT $%d`,
		userColumns, where, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find providers with coordinates", zap.Error(err))
		return nil, fmt.Errorf("find providers with coordinates: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan provider row", zap.Error(err))
			return nil, fmt.Errorf("scan provider row: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}
