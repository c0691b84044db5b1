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

type BookingService interface {
	CreateBooking(ctx context.Context, requesterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	AcceptBooking(ctx context.Context, providerID, bookingID string) (*response.BookingResponse, error)
	RejectBooking(ctx context.Context, providerID, bookingID string, req *request.RejectBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID, role, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, userID, role, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)

	GetBookingByID(ctx context.Context, userID, bookingID string) (*response.BookingDetailResponse, error)
	GetRequesterBookings(ctx context.Context, requesterID string, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetProviderBookings(ctx context.Context, providerID string, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo     *repository.Repository
	notifier Notifier
	mailer   Mailer
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifier Notifier, mailer Mailer, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		mailer:   mailer,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, requesterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", requesterID)
	}

	providerUUID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", req.ProviderID)
	}

	requester, err := s.repo.User.FindByID(ctx, requesterUUID)
	if err != nil {
		return nil, fmt.Errorf("find requester: %w", err)
	}
	if requester == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "user %s not found", requesterID)
	}

	active, err := s.repo.User.IsActiveProvider(ctx, providerUUID)
	if err != nil {
		return nil, fmt.Errorf("check provider: %w", err)
	}
	if !active {
		return nil, apperror.Newf(apperror.KindNotFound, "provider %s not found or inactive", req.ProviderID)
	}

	requestedDate, err := time.Parse("2006-01-02", req.RequestedDate)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid requested date %s", req.RequestedDate)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequesterID:        requesterUUID,
		ProviderID:         providerUUID,
		ServiceCategory:    req.ServiceCategory,
		ServiceDescription: req.ServiceDescription,
		RequestedDate:      requestedDate,
		RequestedTime:      req.RequestedTime,
		Status:             entity.BookingStatusPending,
		Budget:             req.Budget,
		Address:            req.Address,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		RequesterNotes:     req.RequesterNotes,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("requester_id", requesterID),
			zap.String("provider_id", req.ProviderID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester_id", requesterID),
		zap.String("provider_id", req.ProviderID),
		zap.String("category", req.ServiceCategory),
		zap.Float64("budget", req.Budget),
	)

	link := bookingLink(booking.ID)
	s.notifier.Send(ctx, providerUUID, entity.NotificationTypeBooking,
		"New service request",
		fmt.Sprintf("You have a new %s request for %s", booking.ServiceCategory, req.RequestedDate),
		&link,
	)
	s.notifier.Send(ctx, requesterUUID, entity.NotificationTypeBooking,
		"Request submitted",
		fmt.Sprintf("Your %s request was sent to the provider", booking.ServiceCategory),
		&link,
	)

	if err := s.mailer.Send(ctx, requester.Email, "Booking request submitted",
		fmt.Sprintf("Your %s request for %s has been submitted.", booking.ServiceCategory, req.RequestedDate)); err != nil {
		s.log.Warn("Booking confirmation mail failed", zap.Error(err))
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AcceptBooking(ctx context.Context, providerID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findProviderBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, apperror.Newf(apperror.KindInvalidState, "booking is %s, only pending bookings can be accepted", booking.Status)
	}

	now := time.Now()
	booking.Status = entity.BookingStatusAccepted
	booking.AcceptedAt = &now

	if err := s.applyTransition(ctx, booking, entity.BookingStatusPending); err != nil {
		return nil, err
	}

	s.log.Info("Booking accepted",
		zap.String("booking_id", bookingID),
		zap.String("provider_id", providerID),
	)

	link := bookingLink(booking.ID)
	s.notifier.Send(ctx, booking.RequesterID, entity.NotificationTypeBooking,
		"Request accepted",
		fmt.Sprintf("Your %s request was accepted", booking.ServiceCategory),
		&link,
	)

	if requester, findErr := s.repo.User.FindByID(ctx, booking.RequesterID); findErr == nil && requester != nil {
		if mailErr := s.mailer.Send(ctx, requester.Email, "Booking accepted",
			fmt.Sprintf("Your %s request has been accepted.", booking.ServiceCategory)); mailErr != nil {
			s.log.Warn("Acceptance mail failed", zap.Error(mailErr))
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, providerID, bookingID string, req *request.RejectBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.findProviderBooking(ctx, providerID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, apperror.Newf(apperror.KindInvalidState, "booking is %s, only pending bookings can be rejected", booking.Status)
	}

	now := time.Now()
	booking.Status = entity.BookingStatusRejected
	booking.CancelledAt = &now
	booking.CancellationReason = req.Reason

	if err := s.applyTransition(ctx, booking, entity.BookingStatusPending); err != nil {
		return nil, err
	}

	s.log.Info("Booking rejected",
		zap.String("booking_id", bookingID),
		zap.String("provider_id", providerID),
	)

	link := bookingLink(booking.ID)
	s.notifier.Send(ctx, booking.RequesterID, entity.NotificationTypeBooking,
		"Request declined",
		fmt.Sprintf("Your %s request was declined by the provider", booking.ServiceCategory),
		&link,
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, role, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	booking, _, err := s.findPartyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusAccepted {
		return nil, apperror.Newf(apperror.KindInvalidState, "booking is %s and can no longer be cancelled", booking.Status)
	}

	from := booking.Status
	now := time.Now()
	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = req.Reason

	if err := s.applyTransition(ctx, booking, from); err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("cancelled_by", userID),
		zap.String("role", role),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, userID, role, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	booking, actorUUID, err := s.findPartyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	switch role {
	case string(entity.RoleRequester):
		if booking.RequesterID != actorUUID {
			return nil, apperror.New(apperror.KindForbidden, "booking does not belong to this requester")
		}
	case string(entity.RoleProvider):
		if booking.ProviderID != actorUUID {
			return nil, apperror.New(apperror.KindForbidden, "booking does not belong to this provider")
		}
	default:
		return nil, apperror.Newf(apperror.KindForbidden, "role %s cannot update booking status", role)
	}

	newStatus := entity.BookingStatus(req.Status)
	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperror.Newf(apperror.KindInvalidState, "cannot transition booking from %s to %s", booking.Status, newStatus)
	}

	from := booking.Status
	now := time.Now()
	booking.Status = newStatus
	switch newStatus {
	case entity.BookingStatusCompleted:
		booking.CompletedAt = &now
	case entity.BookingStatusCancelled:
		booking.CancelledAt = &now
	}

	if req.Notes != nil {
		if role == string(entity.RoleProvider) {
			booking.ProviderNotes = req.Notes
		} else {
			booking.RequesterNotes = req.Notes
		}
	}

	if err := s.applyTransition(ctx, booking, from); err != nil {
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("from", string(from)),
		zap.String("to", string(newStatus)),
		zap.String("updated_by", userID),
	)

	if newStatus == entity.BookingStatusCompleted {
		link := bookingLink(booking.ID)
		s.notifier.Send(ctx, booking.RequesterID, entity.NotificationTypeBooking,
			"Service completed",
			fmt.Sprintf("Your %s booking was marked completed", booking.ServiceCategory),
			&link,
		)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, userID, bookingID string) (*response.BookingDetailResponse, error) {
	booking, _, err := s.findPartyBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	requester, err := s.repo.User.FindByID(ctx, booking.RequesterID)
	if err != nil || requester == nil {
		return nil, fmt.Errorf("find booking requester: %w", err)
	}

	provider, err := s.repo.User.FindByID(ctx, booking.ProviderID)
	if err != nil || provider == nil {
		return nil, fmt.Errorf("find booking provider: %w", err)
	}

	resp := response.BookingToDetailResponse(booking, requester, provider)
	return &resp, nil
}

func (s *bookingService) GetRequesterBookings(ctx context.Context, requesterID string, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.listBookings(ctx, requesterID, req,
		s.repo.Booking.FindByRequesterID, s.repo.Booking.CountByRequesterID)
}

func (s *bookingService) GetProviderBookings(ctx context.Context, providerID string, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.listBookings(ctx, providerID, req,
		s.repo.Booking.FindByProviderID, s.repo.Booking.CountByProviderID)
}

func (s *bookingService) listBookings(
	ctx context.Context,
	userID string,
	req *request.ListBookingsRequest,
	find func(context.Context, uuid.UUID, *entity.BookingStatus, int, int) ([]*entity.Booking, error),
	count func(context.Context, uuid.UUID, *entity.BookingStatus) (int64, error),
) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	var status *entity.BookingStatus
	if req.Status != nil {
		st := entity.BookingStatus(*req.Status)
		status = &st
	}

	bookings, err := find(ctx, userUUID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := count(ctx, userUUID, status)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

// findProviderBooking loads a booking scoped to the acting provider.
func (s *bookingService) findProviderBooking(ctx context.Context, providerID, bookingID string) (*entity.Booking, error) {
	providerUUID, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", providerID)
	}

	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByIDAndProvider(ctx, bookingUUID, providerUUID)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "booking %s not found", bookingID)
	}

	return booking, nil
}

// findPartyBooking loads a booking and verifies the acting user is one of
// its two parties.
func (s *bookingService) findPartyBooking(ctx context.Context, userID, bookingID string) (*entity.Booking, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindValidation, "invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindNotFound, "booking %s not found", bookingID)
	}

	if !booking.IsParty(userUUID) {
		return nil, uuid.Nil, apperror.New(apperror.KindForbidden, "user is not a party to this booking")
	}

	return booking, userUUID, nil
}

// applyTransition persists a status change conditional on the previous
// status; a concurrent transition that got there first surfaces as
// InvalidState, so exactly one of two racing calls wins.
func (s *bookingService) applyTransition(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error {
	err := s.repo.Booking.TransitionFrom(ctx, booking, from)
	if errors.Is(err, repository.ErrStaleStatus) {
		return apperror.Newf(apperror.KindInvalidState, "booking is no longer %s", from)
	}
	if err != nil {
		s.log.Error("Failed to persist booking transition",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(booking.Status)),
		)
		return fmt.Errorf("persist booking transition: %w", err)
	}
	return nil
}

func bookingLink(id uuid.UUID) string {
	return "/bookings/" + id.String()
}
