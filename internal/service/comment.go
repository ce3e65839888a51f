package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
)

type commentService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Comment {
	return &commentService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	post, err := findVisiblePost(ctx, s.logger, s.repo, input.PostID, model.UserViewer(authorID, false))
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		PostID:   input.PostID,
		AuthorID: authorID,
		Content:  input.Content,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment on post(%d) by user(%s): %s", input.PostID, authorID.String(), err.Error())
		return nil, ErrInternal
	}

	// The cached full post carries the comment count.
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(post.ID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", post.ID, err.Error())
	}

	s.notifications.Push(ctx, model.Notification{
		UserID:    post.AuthorID,
		Type:      model.NotificationComment,
		ActorID:   authorID,
		PostID:    &post.ID,
		CommentID: &comment.ID,
	})

	return comment, nil
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullComment, error) {
	coercePage(&limit, &offset)

	if _, err := findVisiblePost(ctx, s.logger, s.repo, postID, viewer); err != nil {
		return nil, err
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64, viewer model.Viewer) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}
	if !viewer.Privileged && !viewer.Is(comment.AuthorID) {
		return ErrNotYourComment
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, commentID, comment.AuthorID); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(comment.PostID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", comment.PostID, err.Error())
	}

	return nil
}
