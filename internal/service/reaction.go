package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
)

type reactionService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newReactionService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Reaction {
	return &reactionService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *reactionService) ToggleLike(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error) {
	post, err := findVisiblePost(ctx, s.logger, s.repo, postID, model.UserViewer(userID, false))
	if err != nil {
		return nil, err
	}

	liked, count, err := s.repo.Postgres.Reaction.ToggleLike(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle like on post(%d) by user(%s): %s", postID, userID.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidatePost(ctx, postID)

	if liked {
		s.notifications.Push(ctx, model.Notification{
			UserID:  post.AuthorID,
			Type:    model.NotificationLike,
			ActorID: userID,
			PostID:  &postID,
		})
	}

	return &dto.ToggleResponse{Active: liked, Count: count}, nil
}

func (s *reactionService) ToggleBookmark(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error) {
	if _, err := findVisiblePost(ctx, s.logger, s.repo, postID, model.UserViewer(userID, false)); err != nil {
		return nil, err
	}

	bookmarked, err := s.repo.Postgres.Reaction.ToggleBookmark(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle bookmark on post(%d) by user(%s): %s", postID, userID.String(), err.Error())
		return nil, ErrInternal
	}

	return &dto.ToggleResponse{Active: bookmarked}, nil
}

func (s *reactionService) ToggleRepost(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error) {
	post, err := findVisiblePost(ctx, s.logger, s.repo, postID, model.UserViewer(userID, false))
	if err != nil {
		return nil, err
	}

	reposted, count, err := s.repo.Postgres.Reaction.ToggleRepost(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle repost on post(%d) by user(%s): %s", postID, userID.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidatePost(ctx, postID)

	if reposted {
		s.notifications.Push(ctx, model.Notification{
			UserID:  post.AuthorID,
			Type:    model.NotificationRepost,
			ActorID: userID,
			PostID:  &postID,
		})
	}

	return &dto.ToggleResponse{Active: reposted, Count: count}, nil
}

func (s *reactionService) FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	posts, err := s.repo.Postgres.Reaction.FindUserBookmarks(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) bookmarks: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *reactionService) FindUserReposts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	posts, err := s.repo.Postgres.Reaction.FindUserReposts(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) reposts: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *reactionService) invalidatePost(ctx context.Context, postID int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", postID, err.Error())
	}
}
