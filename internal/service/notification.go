package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/ws"
)

type notificationService struct {
	logger *zap.Logger
	repo   *repository.Repository
	hub    *ws.Hub
}

func newNotificationService(logger *zap.Logger, repo *repository.Repository, hub *ws.Hub) Notification {
	return &notificationService{
		logger: logger,
		repo:   repo,
		hub:    hub,
	}
}

// Push persists a notification and emits it to the recipient's open
// connections. Self-actions produce no notification, and failures are
// logged rather than surfaced: notifying must never fail the action
// that triggered it.
func (s *notificationService) Push(ctx context.Context, n model.Notification) {
	if n.UserID == n.ActorID {
		return
	}

	created, err := s.repo.Postgres.Notification.Create(ctx, n)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create %s notification for user(%s): %s", n.Type, n.UserID.String(), err.Error())
		return
	}

	s.hub.EmitToUser(n.UserID, "notification", created)
}

func (s *notificationService) FindByUser(ctx context.Context, userID uuid.UUID, limit int, offset int, unreadOnly bool) ([]*model.FullNotification, error) {
	coercePage(&limit, &offset)

	notifications, err := s.repo.Postgres.Notification.FindByUser(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) notifications: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.Postgres.Notification.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count user(%s) unread notifications: %s", userID.String(), err.Error())
		return 0, ErrInternal
	}

	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkRead(ctx, id, userID); err != nil {
		s.logger.Sugar().Errorf("failed to mark notification(%d) read: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkAllRead(ctx, userID); err != nil {
		s.logger.Sugar().Errorf("failed to mark user(%s) notifications read: %s", userID.String(), err.Error())
		return ErrInternal
	}

	return nil
}
