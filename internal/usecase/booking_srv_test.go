package usecase

import (
	"context"
	"errors"
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

func newBookingFixture(status entity.BookingStatus) *entity.Booking {
	now := time.Now()
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequesterID:        uuid.New(),
		ProviderID:         uuid.New(),
		ServiceCategory:    "plumbing",
		ServiceDescription: "Fix the leaking kitchen sink",
		RequestedDate:      now.AddDate(0, 0, 7),
		RequestedTime:      "14:00",
		Status:             status,
		Budget:             150,
	}
}

func newBookingServiceForTest(t *testing.T) (BookingService, *testMocks, *recordingNotifier) {
	t.Helper()
	repo, mocks := newTestRepository()
	notifier := &recordingNotifier{}
	svc := NewBookingService(repo, notifier, NewLogMailer(zap.NewNop()), zap.NewNop())
	return svc, mocks, notifier
}

func validCreateBookingRequest(providerID uuid.UUID) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		ProviderID:         providerID.String(),
		ServiceCategory:    "plumbing",
		ServiceDescription: "Fix the leaking kitchen sink",
		RequestedDate:      "2026-09-10",
		RequestedTime:      "14:00",
		Budget:             150,
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	requesterID := uuid.New()
	providerID := uuid.New()

	requester := &entity.User{
		Base:      entity.Base{ID: requesterID},
		Email:     "requester@example.com",
		FirstName: "Ana",
		LastName:  "Silva",
		Role:      entity.RoleRequester,
		IsActive:  true,
	}

	mocks.user.On("FindByID", ctx, requesterID).Return(requester, nil)
	mocks.user.On("IsActiveProvider", ctx, providerID).Return(true, nil)
	mocks.booking.On("Create", ctx, mock.Anything).Return(nil)

	booking, err := svc.CreateBooking(ctx, requesterID.String(), validCreateBookingRequest(providerID))

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, float64(150), booking.Budget)
	assert.Equal(t, float64(0), booking.FinalAmount)

	// Both parties hear about the new request.
	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, providerID, notifier.sent[0].UserID)
	assert.Equal(t, requesterID, notifier.sent[1].UserID)
	mocks.booking.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ShortDescription(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)

	req := validCreateBookingRequest(uuid.New())
	req.ServiceDescription = "too short"

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), req)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	mocks.booking.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_InactiveProvider(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	requesterID := uuid.New()
	providerID := uuid.New()

	mocks.user.On("FindByID", ctx, requesterID).Return(&entity.User{
		Base: entity.Base{ID: requesterID},
		Role: entity.RoleRequester,
	}, nil)
	mocks.user.On("IsActiveProvider", ctx, providerID).Return(false, nil)

	_, err := svc.CreateBooking(ctx, requesterID.String(), validCreateBookingRequest(providerID))

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, notifier.sent)
	mocks.booking.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_AcceptBooking_Success(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusPending)

	mocks.booking.On("FindByIDAndProvider", ctx, booking.ID, booking.ProviderID).Return(booking, nil)
	mocks.booking.On("TransitionFrom", ctx, mock.Anything, entity.BookingStatusPending).Return(nil)
	mocks.user.On("FindByID", ctx, booking.RequesterID).Return(&entity.User{
		Base:  entity.Base{ID: booking.RequesterID},
		Email: "requester@example.com",
	}, nil)

	result, err := svc.AcceptBooking(ctx, booking.ProviderID.String(), booking.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAccepted, result.Status)
	assert.NotNil(t, result.AcceptedAt)

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, booking.RequesterID, notifier.sent[0].UserID)
	mocks.booking.AssertExpectations(t)
}

func TestBookingService_AcceptBooking_NotPending(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCancelled)
	mocks.booking.On("FindByIDAndProvider", ctx, booking.ID, booking.ProviderID).Return(booking, nil)

	_, err := svc.AcceptBooking(ctx, booking.ProviderID.String(), booking.ID.String())

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	mocks.booking.AssertNotCalled(t, "TransitionFrom", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_AcceptBooking_LostRace(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	// A concurrent reject won between our read and our write.
	booking := newBookingFixture(entity.BookingStatusPending)
	mocks.booking.On("FindByIDAndProvider", ctx, booking.ID, booking.ProviderID).Return(booking, nil)
	mocks.booking.On("TransitionFrom", ctx, mock.Anything, entity.BookingStatusPending).Return(repository.ErrStaleStatus)

	_, err := svc.AcceptBooking(ctx, booking.ProviderID.String(), booking.ID.String())

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Empty(t, notifier.sent)
}

func TestBookingService_RejectBooking_StoresReason(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusPending)
	reason := "fully booked that week"

	mocks.booking.On("FindByIDAndProvider", ctx, booking.ID, booking.ProviderID).Return(booking, nil)
	mocks.booking.On("TransitionFrom", ctx, mock.Anything, entity.BookingStatusPending).Return(nil)

	result, err := svc.RejectBooking(ctx, booking.ProviderID.String(), booking.ID.String(), &request.RejectBookingRequest{Reason: &reason})

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusRejected, result.Status)
	assert.NotNil(t, result.CancelledAt)
	assert.Equal(t, &reason, result.CancellationReason)
	assert.Len(t, notifier.sent, 1)
}

func TestBookingService_CancelBooking_Terminal(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.CancelBooking(ctx, booking.RequesterID.String(), string(entity.RoleRequester), booking.ID.String(), &request.CancelBookingRequest{})

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestBookingService_CancelBooking_NotParty(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusPending)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	stranger := uuid.New()
	_, err := svc.CancelBooking(ctx, stranger.String(), string(entity.RoleRequester), booking.ID.String(), &request.CancelBookingRequest{})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestBookingService_UpdateStatus_Completes(t *testing.T) {
	svc, mocks, notifier := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusAccepted)
	notes := "done, replaced the trap"

	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)
	mocks.booking.On("TransitionFrom", ctx, mock.Anything, entity.BookingStatusAccepted).Return(nil)

	result, err := svc.UpdateBookingStatus(ctx, booking.ProviderID.String(), string(entity.RoleProvider), booking.ID.String(), &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCompleted),
		Notes:  &notes,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, result.Status)
	assert.NotNil(t, result.CompletedAt)
	assert.Equal(t, &notes, result.ProviderNotes)
	assert.Nil(t, result.RequesterNotes)

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, booking.RequesterID, notifier.sent[0].UserID)
}

func TestBookingService_UpdateStatus_IllegalTransition(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusCompleted)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.UpdateBookingStatus(ctx, booking.RequesterID.String(), string(entity.RoleRequester), booking.ID.String(), &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusAccepted),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	mocks.booking.AssertNotCalled(t, "TransitionFrom", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_RoleMismatch(t *testing.T) {
	svc, mocks, _ := newBookingServiceForTest(t)
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusAccepted)
	mocks.booking.On("FindByID", ctx, booking.ID).Return(booking, nil)

	// The provider is a party, but claims the requester role.
	_, err := svc.UpdateBookingStatus(ctx, booking.ProviderID.String(), string(entity.RoleRequester), booking.ID.String(), &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCompleted),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestBookingService_NotificationFailureDoesNotAbort(t *testing.T) {
	repo, mocks := newTestRepository()
	// Real dispatcher backed by a store that always fails.
	notifier := NewNotificationService(repo, zap.NewNop())
	svc := NewBookingService(repo, notifier, NewLogMailer(zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	booking := newBookingFixture(entity.BookingStatusPending)

	mocks.booking.On("FindByIDAndProvider", ctx, booking.ID, booking.ProviderID).Return(booking, nil)
	mocks.booking.On("TransitionFrom", ctx, mock.Anything, entity.BookingStatusPending).Return(nil)
	mocks.user.On("FindByID", ctx, booking.RequesterID).Return(&entity.User{Base: entity.Base{ID: booking.RequesterID}}, nil)
	mocks.notification.On("Create", mock.Anything, mock.Anything).Return(errors.New("notification store down"))

	result, err := svc.AcceptBooking(ctx, booking.ProviderID.String(), booking.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAccepted, result.Status)
	mocks.notification.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}
