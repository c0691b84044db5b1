package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/dto/response"
	"service-marketplace/pkg/apperror"
	"service-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, requesterID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, requesterID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	RespondToReview(ctx context.Context, providerID, reviewID string, req *request.RespondReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, requesterID, reviewID string) error

	GetProviderReviews(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetProviderRatingStats(ctx context.Context, providerID string) (*response.ProviderRatingStats, error)
}

type reviewService struct {
	repo     *repository.Repository
	notifier Notifier
	log      *zap.Logger
}

func NewReviewService(repo *repository.Repository, notifier Notifier, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, requesterID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", requesterID)
	}

	bookingUUID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid booking ID format %s", req.BookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "booking %s not found", req.BookingID)
	}

	if booking.RequesterID != requesterUUID {
		return nil, apperror.New(apperror.KindForbidden, "only the booking requester can review it")
	}

	if booking.Status != entity.BookingStatusCompleted {
		return nil, apperror.Newf(apperror.KindInvalidState, "booking is %s, only completed bookings can be reviewed", booking.Status)
	}

	existing, err := s.repo.Review.FindByBookingID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperror.Newf(apperror.KindConflict, "booking %s already has a review", req.BookingID)
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:   booking.ID,
		RequesterID: booking.RequesterID,
		ProviderID:  booking.ProviderID,
		Rating:      req.Rating,
		ReviewText:  req.ReviewText,
		IsVisible:   true,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Newf(apperror.KindConflict, "booking %s already has a review", req.BookingID)
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.String("provider_id", review.ProviderID.String()),
		zap.Int("rating", req.Rating),
	)

	if err := s.recomputeProviderRating(ctx, review.ProviderID); err != nil {
		return nil, err
	}

	link := "/reviews/" + review.ID.String()
	s.notifier.Send(ctx, review.ProviderID, entity.NotificationTypeReview,
		"New review",
		fmt.Sprintf("You received a %d-star review", req.Rating),
		&link,
	)

	resp := response.ReviewToResponse(review, "")
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, requesterID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}
	if req.Rating == nil && req.ReviewText == nil {
		return nil, apperror.New(apperror.KindValidation, "nothing to update")
	}

	review, err := s.findAuthorReview(ctx, requesterID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.ReviewText != nil {
		review.ReviewText = req.ReviewText
	}
	review.IsEdited = true

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.Int("rating", review.Rating),
	)

	if err := s.recomputeProviderRating(ctx, review.ProviderID); err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review, "")
	return &resp, nil
}

func (s *reviewService) RespondToReview(ctx context.Context, providerID, reviewID string, req *request.RespondReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	providerUUID, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", providerID)
	}

	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.ProviderID != providerUUID {
		return nil, apperror.New(apperror.KindForbidden, "only the reviewed provider can respond")
	}

	// Single mutable response slot: responding again overwrites the
	// previous text and refreshes the timestamp.
	now := time.Now()
	if err := s.repo.Review.SetResponse(ctx, review.ID, req.ResponseText, now); err != nil {
		return nil, fmt.Errorf("set review response: %w", err)
	}

	review.ResponseText = &req.ResponseText
	review.RespondedAt = &now

	s.log.Info("Review response saved",
		zap.String("review_id", reviewID),
		zap.String("provider_id", providerID),
	)

	link := "/reviews/" + review.ID.String()
	s.notifier.Send(ctx, review.RequesterID, entity.NotificationTypeReview,
		"Provider responded to your review",
		"The provider replied to your review",
		&link,
	)

	resp := response.ReviewToResponse(review, "")
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, requesterID, reviewID string) error {
	review, err := s.findAuthorReview(ctx, requesterID, reviewID)
	if err != nil {
		return err
	}

	// Soft delete: the row is kept, only excluded from aggregation.
	if err := s.repo.Review.SetVisibility(ctx, review.ID, false); err != nil {
		return fmt.Errorf("hide review: %w", err)
	}

	s.log.Info("Review hidden",
		zap.String("review_id", reviewID),
		zap.String("requester_id", requesterID),
	)

	return s.recomputeProviderRating(ctx, review.ProviderID)
}

func (s *reviewService) GetProviderReviews(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	providerUUID, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", providerID)
	}

	reviews, err := s.repo.Review.FindVisibleByProviderID(ctx, providerUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list provider reviews: %w", err)
	}

	total, err := s.repo.Review.CountVisibleByProviderID(ctx, providerUUID)
	if err != nil {
		return nil, fmt.Errorf("count provider reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		name := ""
		if requester, findErr := s.repo.User.FindByID(ctx, review.RequesterID); findErr == nil && requester != nil {
			name = requester.FullName()
		}
		items[i] = response.ReviewToResponse(review, name)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetProviderRatingStats(ctx context.Context, providerID string) (*response.ProviderRatingStats, error) {
	providerUUID, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", providerID)
	}

	average, count, err := s.repo.Review.VisibleRatingStats(ctx, providerUUID)
	if err != nil {
		return nil, fmt.Errorf("provider rating stats: %w", err)
	}

	return &response.ProviderRatingStats{
		AverageRating: utils.Round2(average),
		ReviewCount:   count,
	}, nil
}

// recomputeProviderRating rebuilds the provider's average from the full
// current visible-review set. No visible reviews resets the average to 0.
func (s *reviewService) recomputeProviderRating(ctx context.Context, providerID uuid.UUID) error {
	average, count, err := s.repo.Review.VisibleRatingStats(ctx, providerID)
	if err != nil {
		return fmt.Errorf("recompute provider rating: %w", err)
	}

	rating := 0.0
	if count > 0 {
		rating = utils.Round2(average)
	}

	if err := s.repo.User.SetAverageRating(ctx, providerID, rating); err != nil {
		s.log.Error("Failed to store recomputed rating",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
			zap.Float64("rating", rating),
		)
		return fmt.Errorf("store recomputed rating: %w", err)
	}

	s.log.Debug("Provider rating recomputed",
		zap.String("provider_id", providerID.String()),
		zap.Float64("rating", rating),
		zap.Int64("visible_reviews", count),
	)

	return nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	reviewUUID, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid review ID format %s", reviewID)
	}

	review, err := s.repo.Review.FindByID(ctx, reviewUUID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "review %s not found", reviewID)
	}

	return review, nil
}

// findAuthorReview loads a review and verifies the acting user wrote it.
func (s *reviewService) findAuthorReview(ctx context.Context, requesterID, reviewID string) (*entity.Review, error) {
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", requesterID)
	}

	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.RequesterID != requesterUUID {
		return nil, apperror.New(apperror.KindForbidden, "only the review author can modify it")
	}

	return review, nil
}
