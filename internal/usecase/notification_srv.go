package usecase

import (
	"context"
	"fmt"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/internal/data/repository"
	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/dto/response"
	"service-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers a notification to a user. Delivery is best-effort:
// implementations log failures and never return them, so a transition that
// triggered the notification is never rolled back by a delivery problem.
type Notifier interface {
	Send(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, title, message string, link *string)
}

type NotificationService interface {
	Notifier

	GetUserNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) Send(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, title, message string, link *string) {
	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    link,
	}

	// Dispatch runs with its own deadline so a slow store never holds up
	// the transition that triggered it.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.Notification.Create(sendCtx, notification); err != nil {
		depErr := apperror.Wrap(err, apperror.KindDependency, "notification dispatch failed")
		s.log.Warn("Notification dispatch failed",
			zap.Error(depErr),
			zap.String("user_id", userID.String()),
			zap.String("type", string(notifType)),
			zap.String("title", title),
		)
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	notifications, err := s.repo.Notification.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user notifications: %w", err)
	}

	total, err := s.repo.Notification.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user notifications: %w", err)
	}

	items := make([]response.NotificationResponse, len(notifications))
	for i, notification := range notifications {
		items[i] = response.NotificationToResponse(notification)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	count, err := s.repo.Notification.CountUnread(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return &response.UnreadCountResponse{UnreadCount: count}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	notifUUID, err := uuid.Parse(notificationID)
	if err != nil {
		return apperror.Newf(apperror.KindValidation, "invalid notification ID format %s", notificationID)
	}

	marked, err := s.repo.Notification.MarkRead(ctx, notifUUID, userUUID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !marked {
		return apperror.Newf(apperror.KindNotFound, "notification %s not found", notificationID)
	}

	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperror.Newf(apperror.KindValidation, "invalid user ID format %s", userID)
	}

	marked, err := s.repo.Notification.MarkAllRead(ctx, userUUID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	s.log.Info("Marked notifications read",
		zap.String("user_id", userID),
		zap.Int64("count", marked),
	)

	return nil
}
