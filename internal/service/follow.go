package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
)

type followService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newFollowService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Follow {
	return &followService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *followService) Follow(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := s.findTarget(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return ErrCannotFollowSelf
	}

	if err := s.repo.Postgres.Follow.Create(ctx, followerID, target.ID); err != nil {
		s.logger.Sugar().Errorf("failed to create follow of user(%s) by user(%s): %s", target.ID.String(), followerID.String(), err.Error())
		return ErrInternal
	}

	s.notifications.Push(ctx, model.Notification{
		UserID:  target.ID,
		Type:    model.NotificationFollow,
		ActorID: followerID,
	})

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := s.findTarget(ctx, username)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Follow.Delete(ctx, followerID, target.ID); err != nil {
		s.logger.Sugar().Errorf("failed to delete follow of user(%s) by user(%s): %s", target.ID.String(), followerID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID uuid.UUID, username string) (bool, error) {
	target, err := s.findTarget(ctx, username)
	if err != nil {
		return false, err
	}

	following, err := s.repo.Postgres.Follow.Exists(ctx, followerID, target.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check follow of user(%s) by user(%s): %s", target.ID.String(), followerID.String(), err.Error())
		return false, ErrInternal
	}

	return following, nil
}

func (s *followService) FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error) {
	coercePage(&limit, &offset)

	followers, err := s.repo.Postgres.Follow.FindFollowers(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) followers: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return followers, nil
}

func (s *followService) FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error) {
	coercePage(&limit, &offset)

	following, err := s.repo.Postgres.Follow.FindFollowing(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) following: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return following, nil
}

func (s *followService) findTarget(ctx context.Context, username string) (*model.CachedUser, error) {
	target, err := s.repo.Postgres.UserCache.FindByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}

	return target, nil
}
