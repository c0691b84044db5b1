package usecase

import (
	"context"
	"testing"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/dto/request"
	"service-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newPaymentServiceForTest(t *testing.T) (PaymentService, *testMocks, *recordingNotifier) {
	t.Helper()
	repo, mocks := newTestRepository()
	notifier := &recordingNotifier{}
	svc := NewPaymentService(repo, notifier, 0.15, zap.NewNop())
	return svc, mocks, notifier
}

func newPaymentFixture(booking *entity.Booking, status entity.PaymentStatus) *entity.Payment {
	now := time.Now()
	split := CalculateSplit(booking.Budget, 0.15)
	return &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:      booking.ID,
		RequesterID:    booking.RequesterID,
		ProviderID:     booking.ProviderID,
		Amount:         booking.Budget,
		Commission:     split.Commission,
		ProviderPayout: split.Payout,
		PaymentMethod:  "card",
		TransactionID:  "TXN-20260829120000-ABCDEF12",
		Status:         status,
		PaymentDate:    now,
	}
}

func TestCalculateSplit(t *testing.T) {
	cases := []struct {
		name       string
		amount     float64
		rate       float64
		commission float64
		payout     float64
	}{
		{"even amount", 100, 0.15, 15, 85},
		{"half cents round up", 123.45, 0.15, 18.52, 104.93},
		{"small amount", 10, 0.15, 1.5, 8.5},
		{"zero rate", 250, 0, 0, 250},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := CalculateSplit(tc.amount, tc.rate)
			assert.InDelta(t, tc.commission, split.Commission, 1e-9)
			assert.InDelta(t, tc.payout, split.Payout, 1e-9)
			// The payout is derived by subtraction, never rounded on its own.
			assert.InDelta(t, tc.amount, split.Commission+split.Payout, 1e-9)
		})
	}
}

func TestPaymentService_ProcessPayment_Settles(t *testing.T) {
	svc, mocks, notifier := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	booking.Budget = 100
	finalized := newPaymentFixture(booking, entity.PaymentStatusCompleted)

	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)
	mocks.payment.On("FindCompletedByBookingID", ctx, booking.ID).Return(nil, nil)
	mocks.payment.On("Create", ctx, mock.MatchedBy(func(p *entity.Payment) bool {
		return p.Amount == 100 && p.Commission == 15 && p.ProviderPayout == 85 &&
			p.Status == entity.PaymentStatusPending
	})).Return(nil)
	mocks.payment.On("FinalizeFromPending", ctx, mock.Anything, entity.PaymentStatusCompleted, mock.Anything).
		Return(finalized, true, nil)
	mocks.user.On("IncrementEarnings", ctx, booking.ProviderID, 85.0).Return(nil)
	mocks.booking.On("SetFinalAmount", ctx, booking.ID, 100.0).Return(nil)

	result, err := svc.ProcessPayment(ctx, booking.RequesterID.String(), &request.ProcessPaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "card",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, result.Status)
	assert.Equal(t, float64(15), result.Commission)
	assert.Equal(t, float64(85), result.ProviderPayout)

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, booking.ProviderID, notifier.sent[0].UserID)
	mocks.payment.AssertExpectations(t)
	mocks.user.AssertExpectations(t)
	mocks.booking.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_NotRequester(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.ProcessPayment(ctx, booking.ProviderID.String(), &request.ProcessPaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "card",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	mocks.payment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessPayment_BookingNotCompleted(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusAccepted)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.ProcessPayment(ctx, booking.RequesterID.String(), &request.ProcessPaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "card",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	mocks.payment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessPayment_AlreadySettled(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	existing := newPaymentFixture(booking, entity.PaymentStatusCompleted)

	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)
	mocks.payment.On("FindCompletedByBookingID", ctx, booking.ID).Return(existing, nil)

	_, err := svc.ProcessPayment(ctx, booking.RequesterID.String(), &request.ProcessPaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "card",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	mocks.payment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessPayment_RetriesTransactionIDCollision(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	booking.Budget = 100
	finalized := newPaymentFixture(booking, entity.PaymentStatusCompleted)

	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)
	mocks.payment.On("FindCompletedByBookingID", ctx, booking.ID).Return(nil, nil)
	mocks.payment.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()
	mocks.payment.On("Create", ctx, mock.Anything).Return(nil).Once()
	mocks.payment.On("FinalizeFromPending", ctx, mock.Anything, entity.PaymentStatusCompleted, mock.Anything).
		Return(finalized, true, nil)
	mocks.user.On("IncrementEarnings", ctx, booking.ProviderID, 85.0).Return(nil)
	mocks.booking.On("SetFinalAmount", ctx, booking.ID, 100.0).Return(nil)

	result, err := svc.ProcessPayment(ctx, booking.RequesterID.String(), &request.ProcessPaymentRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "card",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, result.Status)
	mocks.payment.AssertNumberOfCalls(t, "Create", 2)
}

func TestPaymentService_FinalizeSettlement_SecondCallIsNoOp(t *testing.T) {
	svc, mocks, notifier := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	payment := newPaymentFixture(booking, entity.PaymentStatusCompleted)

	// Already claimed by an earlier finalization.
	mocks.payment.On("FinalizeFromPending", ctx, payment.TransactionID, entity.PaymentStatusCompleted, mock.Anything).
		Return(payment, false, nil)

	result, err := svc.FinalizeSettlement(ctx, payment.TransactionID, entity.PaymentStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, result.Status)
	assert.Empty(t, notifier.sent)
	mocks.user.AssertNotCalled(t, "IncrementEarnings", mock.Anything, mock.Anything, mock.Anything)
	mocks.booking.AssertNotCalled(t, "SetFinalAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_FinalizeSettlement_UnknownTransaction(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	mocks.payment.On("FinalizeFromPending", ctx, "TXN-20260829120000-MISSING1", entity.PaymentStatusCompleted, mock.Anything).
		Return(nil, false, nil)

	_, err := svc.FinalizeSettlement(ctx, "TXN-20260829120000-MISSING1", entity.PaymentStatusCompleted)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPaymentService_FinalizeSettlement_FailedSkipsAggregates(t *testing.T) {
	svc, mocks, notifier := newPaymentServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	payment := newPaymentFixture(booking, entity.PaymentStatusFailed)

	mocks.payment.On("FinalizeFromPending", ctx, payment.TransactionID, entity.PaymentStatusFailed, (*time.Time)(nil)).
		Return(payment, true, nil)

	result, err := svc.FinalizeSettlement(ctx, payment.TransactionID, entity.PaymentStatusFailed)

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, result.Status)
	assert.Empty(t, notifier.sent)
	mocks.user.AssertNotCalled(t, "IncrementEarnings", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_FinalizeSettlement_RejectsNonTerminalStatus(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)

	_, err := svc.FinalizeSettlement(context.Background(), "TXN-20260829120000-ABCDEF12", entity.PaymentStatusPending)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	mocks.payment.AssertNotCalled(t, "FinalizeFromPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_GetEarningsSummary(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)
	ctx := context.Background()

	providerID := uuid.New()
	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-28")

	mocks.payment.On("EarningsSummary", ctx, providerID, start, end.Add(24*time.Hour)).
		Return(&repository.EarningsSummary{
			TotalGross:       1000,
			TotalCommission:  150,
			TotalPayout:      850,
			TransactionCount: 4,
		}, nil)

	summary, err := svc.GetEarningsSummary(ctx, providerID.String(), &request.EarningsSummaryRequest{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-28",
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(850), summary.TotalPayout)
	assert.Equal(t, int64(4), summary.TransactionCount)
}

func TestPaymentService_GetEarningsSummary_EndBeforeStart(t *testing.T) {
	svc, mocks, _ := newPaymentServiceForTest(t)

	_, err := svc.GetEarningsSummary(context.Background(), uuid.New().String(), &request.EarningsSummaryRequest{
		StartDate: "2026-08-28",
		EndDate:   "2026-08-01",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	mocks.payment.AssertNotCalled(t, "EarningsSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
