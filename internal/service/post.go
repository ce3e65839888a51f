package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/rabbitmq"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
	"github.com/hadiwyne/write-space/internal/timeline"
)

const DEFAULT_CONTENT_TYPE = "markdown"

// Broker is the outbound message-queue surface the post service needs.
type Broker interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type postService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	broker   Broker
	renderer Renderer
}

func newPostService(logger *zap.Logger, repo *repository.Repository, broker Broker) Post {
	return &postService{
		logger:   logger,
		repo:     repo,
		broker:   broker,
		renderer: passthroughRenderer{},
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	contentType := input.ContentType
	if contentType == "" {
		contentType = DEFAULT_CONTENT_TYPE
	}

	visibility := model.VisibilityPublic
	if input.Visibility == string(model.VisibilityFollowersOnly) {
		visibility = model.VisibilityFollowersOnly
	}

	post := model.Post{
		AuthorID:     authorID,
		Title:        input.Title,
		Content:      input.Content,
		ContentType:  contentType,
		RenderedHTML: s.renderer.Render(input.Content, contentType),
		Tags:         normalizeTags(input.Tags),
		ImageURLs:    input.ImageURLs,
		IsPublished:  input.IsPublished,
		Visibility:   visibility,
	}
	if post.IsPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if createdPost.IsPublished {
		s.announcePublished(createdPost)
	}

	return createdPost, nil
}

func (s *postService) Edit(ctx context.Context, authorID uuid.UUID, input dto.EditPostRequest) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, input.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d): %s", input.ID, err.Error())
		return nil, ErrInternal
	}
	if post.AuthorID != authorID {
		return nil, ErrNotYourPost
	}

	wasPublished := post.IsPublished

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.ContentType != nil {
		post.ContentType = *input.ContentType
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Content != nil || input.ContentType != nil {
		post.RenderedHTML = s.renderer.Render(post.Content, post.ContentType)
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(*input.Tags)
	}
	if input.ImageURLs != nil {
		post.ImageURLs = *input.ImageURLs
	}
	if input.Visibility != nil {
		switch *input.Visibility {
		case string(model.VisibilityPublic):
			post.Visibility = model.VisibilityPublic
		case string(model.VisibilityFollowersOnly):
			post.Visibility = model.VisibilityFollowersOnly
		}
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	// PublishedAt is set once, at the first publish. Unpublishing and
	// re-publishing keeps the original timestamp so the post does not jump
	// to the top of chronological feeds.
	if post.IsPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Postgres.Post.Update(ctx, *post); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d): %s", post.ID, err.Error())
		return nil, ErrInternal
	}

	s.invalidate(ctx, post.ID)

	if !wasPublished && post.IsPublished {
		s.announcePublished(post)
	}

	return post, nil
}

func (s *postService) Delete(ctx context.Context, id int64, viewer model.Viewer) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return ErrInternal
	}
	if !viewer.Privileged && !viewer.Is(post.AuthorID) {
		return ErrNotYourPost
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", id, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *postService) SetArchived(ctx context.Context, id int64, authorID uuid.UUID, archived bool) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	if post.AuthorID != authorID {
		return nil, ErrNotYourPost
	}

	updated, err := s.repo.Postgres.Post.SetArchived(ctx, id, archived)
	if err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) archived=%t: %s", id, archived, err.Error())
		return nil, ErrInternal
	}

	s.invalidate(ctx, id)

	return updated, nil
}

func (s *postService) FindByID(ctx context.Context, id int64, viewer model.Viewer) (*model.FeedItem, error) {
	full, err := s.findFull(ctx, id)
	if err != nil {
		return nil, err
	}

	isFollower := false
	if full.Post.Visibility == model.VisibilityFollowersOnly && viewer.Authenticated() && !viewer.Is(full.Post.AuthorID) {
		isFollower, err = s.repo.Postgres.Follow.Exists(ctx, *viewer.ID, full.Post.AuthorID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check follow of author(%s): %s", full.Post.AuthorID.String(), err.Error())
			return nil, ErrInternal
		}
	}

	if !timeline.Visible(full.Post, viewer, isFollower) {
		return nil, ErrPostNotFound
	}

	item := model.FeedItem{FullPost: *full}
	if viewer.Authenticated() {
		ids := []int64{id}
		liked, err := s.repo.Postgres.Reaction.LikedSet(ctx, *viewer.ID, ids)
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve liked set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
		bookmarked, err := s.repo.Postgres.Reaction.BookmarkedSet(ctx, *viewer.ID, ids)
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve bookmarked set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
		reposted, err := s.repo.Postgres.Reaction.RepostedSet(ctx, *viewer.ID, ids)
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve reposted set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
		item.IsLiked = liked[id]
		item.IsBookmarked = bookmarked[id]
		item.IsReposted = reposted[id]
	}

	go s.incrViews(id)

	return &item, nil
}

// findFull reads a full post through the redis cache. The cached value is
// viewer-independent; visibility and viewer flags are applied on top.
func (s *postService) findFull(ctx context.Context, id int64) (*model.FullPost, error) {
	cached, err := redisrepo.Get[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil {
		if cached == nil {
			return nil, ErrPostNotFound
		}
		return cached, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
		return nil, ErrInternal
	}

	full, err := s.repo.Postgres.Post.FindFullByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), full, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
	}

	return full, nil
}

func (s *postService) incrViews(postID int64) {
	ctx := context.Background()
	if err := s.repo.Postgres.Post.IncrViews(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to increment views for post(%d): %s", postID, err.Error())
	}
}

func (s *postService) invalidate(ctx context.Context, postID int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", postID, err.Error())
	}
}

func (s *postService) announcePublished(post *model.Post) {
	msg := dto.MQPostPublishedMsg{
		PostID:      post.ID,
		AuthorID:    post.AuthorID.String(),
		Title:       post.Title,
		PublishedAt: *post.PublishedAt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal post published message: %s", err.Error())
		return
	}

	if err := s.broker.Publish(context.Background(), rabbitmq.POST_PUBLISHED_QUEUE, body); err != nil {
		s.logger.Sugar().Errorf("failed to publish to queue(%s): %s", rabbitmq.POST_PUBLISHED_QUEUE, err.Error())
	}
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, viewer, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) FindArchivedPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	posts, err := s.repo.Postgres.Post.FindArchivedPosts(ctx, authorID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) archived posts: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) Search(ctx context.Context, term string, tag string, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	posts, err := s.repo.Postgres.Post.Search(ctx, term, timeline.NormalizeTag(tag), limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func normalizeTags(tags []string) []string {
	var normalized []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		t := timeline.NormalizeTag(tag)
		if t != "" && !seen[t] {
			seen[t] = true
			normalized = append(normalized, t)
		}
	}
	return normalized
}
