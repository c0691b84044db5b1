package usecase

import (
	"context"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) IsActiveProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) IncrementEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *mockUserRepo) SetAverageRating(ctx context.Context, id uuid.UUID, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *mockUserRepo) SearchProviders(ctx context.Context, filter repository.ProviderFilter, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *mockUserRepo) CountProviders(ctx context.Context, filter repository.ProviderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) FindProvidersWithCoordinates(ctx context.Context, filter repository.ProviderFilter, limit int) ([]*entity.User, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByIDAndProvider(ctx context.Context, id, providerID uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, requesterID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	args := m.Called(ctx, requesterID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) FindByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, providerID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	args := m.Called(ctx, providerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) TransitionFrom(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error {
	args := m.Called(ctx, booking, from)
	return args.Error(0)
}

func (m *mockBookingRepo) SetFinalAmount(ctx context.Context, id uuid.UUID, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	args := m.Called(ctx, requesterID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *mockPaymentRepo) CountByRequesterID(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPaymentRepo) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	args := m.Called(ctx, providerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *mockPaymentRepo) CountByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPaymentRepo) FinalizeFromPending(ctx context.Context, transactionID string, status entity.PaymentStatus, payoutDate *time.Time) (*entity.Payment, bool, error) {
	args := m.Called(ctx, transactionID, status, payoutDate)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Payment), args.Bool(1), args.Error(2)
}

func (m *mockPaymentRepo) EarningsSummary(ctx context.Context, providerID uuid.UUID, start, end time.Time) (*repository.EarningsSummary, error) {
	args := m.Called(ctx, providerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.EarningsSummary), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewRepo) FindVisibleByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, providerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *mockReviewRepo) CountVisibleByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	args := m.Called(ctx, id, visible)
	return args.Error(0)
}

func (m *mockReviewRepo) SetResponse(ctx context.Context, id uuid.UUID, text string, respondedAt time.Time) error {
	args := m.Called(ctx, id, text, respondedAt)
	return args.Error(0)
}

func (m *mockReviewRepo) VisibleRatingStats(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *mockNotificationRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingNotifier captures dispatches so tests can assert on them
// without a store.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	UserID uuid.UUID
	Type   entity.NotificationType
	Title  string
}

func (n *recordingNotifier) Send(_ context.Context, userID uuid.UUID, notifType entity.NotificationType, title, _ string, _ *string) {
	n.sent = append(n.sent, sentNotification{UserID: userID, Type: notifType, Title: title})
}

type testMocks struct {
	user         *mockUserRepo
	booking      *mockBookingRepo
	payment      *mockPaymentRepo
	review       *mockReviewRepo
	notification *mockNotificationRepo
}

func newTestRepository() (*repository.Repository, *testMocks) {
	mocks := &testMocks{
		user:         new(mockUserRepo),
		booking:      new(mockBookingRepo),
		payment:      new(mockPaymentRepo),
		review:       new(mockReviewRepo),
		notification: new(mockNotificationRepo),
	}

	repo := &repository.Repository{
		User:         mocks.user,
		Booking:      mocks.booking,
		Payment:      mocks.payment,
		Review:       mocks.review,
		Notification: mocks.notification,
	}

	return repo, mocks
}
