package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/timeline"
)

// findVisiblePost loads a post and applies the visibility policy for the
// viewer. Posts hidden by policy are indistinguishable from missing ones.
func findVisiblePost(ctx context.Context, logger *zap.Logger, repo *repository.Repository, postID int64, viewer model.Viewer) (*model.Post, error) {
	post, err := repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	isFollower := false
	if post.Visibility == model.VisibilityFollowersOnly && viewer.Authenticated() && !viewer.Is(post.AuthorID) {
		isFollower, err = repo.Postgres.Follow.Exists(ctx, *viewer.ID, post.AuthorID)
		if err != nil {
			logger.Sugar().Errorf("failed to check follow of author(%s): %s", post.AuthorID.String(), err.Error())
			return nil, ErrInternal
		}
	}

	if !timeline.Visible(*post, viewer, isFollower) {
		return nil, ErrPostNotFound
	}

	return post, nil
}
