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

// Split is the commission/payout breakdown of a gross amount.
type Split struct {
	Commission float64
	Payout     float64
}

// CalculateSplit rounds the commission half-up to two decimals and derives
// the payout by subtraction, so commission+payout always equals amount
// exactly.
func CalculateSplit(amount, commissionRate float64) Split {
	commission := utils.Round2(amount * commissionRate)
	return Split{
		Commission: commission,
		Payout:     amount - commission,
	}
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, requesterID string, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error)
	FinalizeSettlement(ctx context.Context, transactionID string, newStatus entity.PaymentStatus) (*response.PaymentResponse, error)

	GetPaymentByID(ctx context.Context, userID, paymentID string) (*response.PaymentResponse, error)
	GetReceipt(ctx context.Context, userID, paymentID string) (*response.ReceiptResponse, error)
	GetRequesterPayments(ctx context.Context, requesterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
	GetProviderPayments(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
	GetEarningsSummary(ctx context.Context, providerID string, req *request.EarningsSummaryRequest) (*response.EarningsSummaryResponse, error)
}

type paymentService struct {
	repo           *repository.Repository
	notifier       Notifier
	commissionRate float64
	log            *zap.Logger
}

func NewPaymentService(repo *repository.Repository, notifier Notifier, commissionRate float64, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:           repo,
		notifier:       notifier,
		commissionRate: commissionRate,
		log:            log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) ProcessPayment(ctx context.Context, requesterID string, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Process payment validation failed", zap.Any("errors", errs))
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
		return nil, apperror.New(apperror.KindForbidden, "only the booking requester can pay for it")
	}

	if booking.Status != entity.BookingStatusCompleted {
		return nil, apperror.Newf(apperror.KindInvalidState, "booking is %s, only completed bookings can be paid", booking.Status)
	}

	// Idempotency guard: a booking already settled must not be settled again.
	settled, err := s.repo.Payment.FindCompletedByBookingID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("check existing settlement: %w", err)
	}
	if settled != nil {
		return nil, apperror.Newf(apperror.KindConflict, "booking %s is already settled by transaction %s", req.BookingID, settled.TransactionID)
	}

	amount := booking.SettlementAmount()
	split := CalculateSplit(amount, s.commissionRate)

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:      booking.ID,
		RequesterID:    booking.RequesterID,
		ProviderID:     booking.ProviderID,
		Amount:         amount,
		Commission:     split.Commission,
		ProviderPayout: split.Payout,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  utils.GenerateTransactionID(),
		Status:         entity.PaymentStatusPending,
		PaymentDate:    now,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Transaction ID collision, retry once with a fresh one.
			payment.TransactionID = utils.GenerateTransactionID()
			err = s.repo.Payment.Create(ctx, payment)
		}
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperror.Newf(apperror.KindConflict, "payment for booking %s already exists", req.BookingID)
			}
			s.log.Error("Failed to create payment",
				zap.Error(err),
				zap.String("booking_id", req.BookingID),
			)
			return nil, fmt.Errorf("create payment: %w", err)
		}
	}

	s.log.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.String("transaction_id", payment.TransactionID),
		zap.Float64("amount", amount),
		zap.Float64("commission", split.Commission),
		zap.Float64("payout", split.Payout),
	)

	// Settlement is instant: finalize right away.
	return s.FinalizeSettlement(ctx, payment.TransactionID, entity.PaymentStatusCompleted)
}

func (s *paymentService) FinalizeSettlement(ctx context.Context, transactionID string, newStatus entity.PaymentStatus) (*response.PaymentResponse, error) {
	if newStatus != entity.PaymentStatusCompleted && newStatus != entity.PaymentStatusFailed {
		return nil, apperror.Newf(apperror.KindValidation, "cannot finalize a payment to %s", newStatus)
	}

	var payoutDate *time.Time
	if newStatus == entity.PaymentStatusCompleted {
		now := time.Now()
		payoutDate = &now
	}

	payment, finalized, err := s.repo.Payment.FinalizeFromPending(ctx, transactionID, newStatus, payoutDate)
	if err != nil {
		return nil, fmt.Errorf("finalize settlement: %w", err)
	}
	if payment == nil {
		return nil, apperror.Newf(apperror.KindNotFound, "transaction %s not found", transactionID)
	}

	// The conditional update claims the pending payment exactly once, so
	// aggregate effects run at most once even under concurrent finalization.
	if finalized && newStatus == entity.PaymentStatusCompleted {
		if err := s.repo.User.IncrementEarnings(ctx, payment.ProviderID, payment.ProviderPayout); err != nil {
			s.log.Error("Failed to increment provider earnings",
				zap.Error(err),
				zap.String("transaction_id", transactionID),
				zap.String("provider_id", payment.ProviderID.String()),
			)
			return nil, fmt.Errorf("increment provider earnings: %w", err)
		}

		if err := s.repo.Booking.SetFinalAmount(ctx, payment.BookingID, payment.Amount); err != nil {
			s.log.Error("Failed to set booking final amount",
				zap.Error(err),
				zap.String("booking_id", payment.BookingID.String()),
			)
			return nil, fmt.Errorf("set booking final amount: %w", err)
		}

		s.log.Info("Settlement finalized",
			zap.String("transaction_id", transactionID),
			zap.String("provider_id", payment.ProviderID.String()),
			zap.Float64("payout", payment.ProviderPayout),
		)

		link := "/payments/" + payment.ID.String()
		s.notifier.Send(ctx, payment.ProviderID, entity.NotificationTypePayment,
			"Payment received",
			fmt.Sprintf("You received a payout of %.2f", payment.ProviderPayout),
			&link,
		)
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, userID, paymentID string) (*response.PaymentResponse, error) {
	payment, _, err := s.findPartyPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetReceipt(ctx context.Context, userID, paymentID string) (*response.ReceiptResponse, error) {
	payment, _, err := s.findPartyPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("find receipt booking: %w", err)
	}

	requester, err := s.repo.User.FindByID(ctx, payment.RequesterID)
	if err != nil || requester == nil {
		return nil, fmt.Errorf("find receipt requester: %w", err)
	}

	provider, err := s.repo.User.FindByID(ctx, payment.ProviderID)
	if err != nil || provider == nil {
		return nil, fmt.Errorf("find receipt provider: %w", err)
	}

	return &response.ReceiptResponse{
		Payment:       response.PaymentToResponse(payment),
		Booking:       response.BookingToResponse(booking),
		RequesterName: requester.FullName(),
		ProviderName:  provider.FullName(),
	}, nil
}

func (s *paymentService) GetRequesterPayments(ctx context.Context, requesterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	return s.listPayments(ctx, requesterID, req,
		s.repo.Payment.FindByRequesterID, s.repo.Payment.CountByRequesterID)
}

func (s *paymentService) GetProviderPayments(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	return s.listPayments(ctx, providerID, req,
		s.repo.Payment.FindByProviderID, s.repo.Payment.CountByProviderID)
}

func (s *paymentService) listPayments(
	ctx context.Context,
	userID string,
	req *request.PaginatedRequest,
	find func(context.Context, uuid.UUID, int, int) ([]*entity.Payment, error),
	count func(context.Context, uuid.UUID) (int64, error),
) (*response.PaginatedResponse[response.PaymentResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	payments, err := find(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	total, err := count(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	items := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		items[i] = response.PaymentToResponse(payment)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *paymentService) GetEarningsSummary(ctx context.Context, providerID string, req *request.EarningsSummaryRequest) (*response.EarningsSummaryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.New(apperror.KindValidation, utils.FormatValidationErrors(errs))
	}

	providerUUID, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid provider ID format %s", providerID)
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid start date %s", req.StartDate)
	}

	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid end date %s", req.EndDate)
	}
	if end.Before(start) {
		return nil, apperror.New(apperror.KindValidation, "end date is before start date")
	}

	// Include the whole end day.
	summary, err := s.repo.Payment.EarningsSummary(ctx, providerUUID, start, end.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("earnings summary: %w", err)
	}

	return &response.EarningsSummaryResponse{
		TotalGross:       summary.TotalGross,
		TotalCommission:  summary.TotalCommission,
		TotalPayout:      summary.TotalPayout,
		TransactionCount: summary.TransactionCount,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	}, nil
}

// findPartyPayment loads a payment and verifies the acting user is its
// requester or provider.
func (s *paymentService) findPartyPayment(ctx context.Context, userID, paymentID string) (*entity.Payment, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	paymentUUID, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindValidation, "invalid payment ID format %s", paymentID)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil, uuid.Nil, apperror.Newf(apperror.KindNotFound, "payment %s not found", paymentID)
	}

	if payment.RequesterID != userUUID && payment.ProviderID != userUUID {
		return nil, uuid.Nil, apperror.New(apperror.KindForbidden, "user is not a party to this payment")
	}

	return payment, userUUID, nil
}
