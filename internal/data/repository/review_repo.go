package repository

import (
	"context"
	"fmt"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error)
	FindVisibleByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountVisibleByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error)

	Update(ctx context.Context, review *entity.Review) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	SetResponse(ctx context.Context, id uuid.UUID, text string, respondedAt time.Time) error

	// VisibleRatingStats reads the full current visible-review set, making
	// every recomputation idempotent regardless of scheduling order.
	VisibleRatingStats(ctx context.Context, providerID uuid.UUID) (average float64, count int64, err error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, booking_id, requester_id, provider_id, rating, review_text,
	       response_text, responded_at, is_visible, is_edited, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.RequesterID,
		&review.ProviderID,
		&review.Rating,
		&review.ReviewText,
		&review.ResponseText,
		&review.RespondedAt,
		&review.IsVisible,
		&review.IsEdited,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, requester_id, provider_id, rating, review_text,
		                     is_visible, is_edited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.BookingID,
		review.RequesterID,
		review.ProviderID,
		review.Rating,
		review.ReviewText,
		review.IsVisible,
		review.IsEdited,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", review.BookingID.String()),
		)
		return fmt.Errorf("create review for booking %s: %w", review.BookingID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find review by booking ID %s: %w", bookingID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindVisibleByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE provider_id = $1 AND is_visible
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, providerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find visible reviews by provider",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("find visible reviews for provider %s: %w", providerID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func (r *reviewRepository) CountVisibleByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE provider_id = $1 AND is_visible`

	var count int64
	if err := r.db.QueryRow(ctx, query, providerID).Scan(&count); err != nil {
		r.log.Error("Failed to count visible reviews",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, fmt.Errorf("count visible reviews for provider %s: %w", providerID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, review_text = $3, is_edited = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.ReviewText,
		review.IsEdited,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	query := `UPDATE reviews SET is_visible = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, visible)
	if err != nil {
		r.log.Error("Failed to set review visibility",
			zap.Error(err),
			zap.String("review_id", id.String()),
			zap.Bool("visible", visible),
		)
		return fmt.Errorf("set visibility for review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

func (r *reviewRepository) SetResponse(ctx context.Context, id uuid.UUID, text string, respondedAt time.Time) error {
	query := `UPDATE reviews SET response_text = $2, responded_at = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, text, respondedAt)
	if err != nil {
		r.log.Error("Failed to set review response",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("set response for review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

func (r *reviewRepository) VisibleRatingStats(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE provider_id = $1 AND is_visible
	`

	var average float64
	var count int64
	if err := r.db.QueryRow(ctx, query, providerID).Scan(&average, &count); err != nil {
		r.log.Error("Failed to read visible rating stats",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, 0, fmt.Errorf("visible rating stats for provider %s: %w", providerID.String(), err)
	}

	return average, count, nil
}
