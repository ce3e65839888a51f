package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/rabbitmq"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/ws"
)

const (
	MAX_LIMIT                    = 100
	DEFAULT_FEED_LIMIT           = 20
	DEFAULT_TRENDING_TAGS_LIMIT  = 10
	DEFAULT_TRENDING_POSTS_LIMIT = 5
)

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

// coercePage normalizes pagination input: non-positive limits fall back to
// the default, negative offsets to zero, oversized limits to the cap.
func coercePage(limit *int, offset *int) {
	if *limit <= 0 {
		*limit = DEFAULT_FEED_LIMIT
	}
	maxLimit(limit)
	if *offset < 0 {
		*offset = 0
	}
}

type Feed interface {
	GetChronological(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error)
	GetFriends(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error)
	GetPopular(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error)
	GetTrendingPosts(ctx context.Context, viewer model.Viewer, limit int) ([]*model.FeedItem, error)
	GetTrendingTags(ctx context.Context, viewer model.Viewer, limit int) ([]*model.TagCount, error)
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	Edit(ctx context.Context, authorID uuid.UUID, input dto.EditPostRequest) (*model.Post, error)
	Delete(ctx context.Context, id int64, viewer model.Viewer) error
	SetArchived(ctx context.Context, id int64, authorID uuid.UUID, archived bool) (*model.Post, error)
	FindByID(ctx context.Context, id int64, viewer model.Viewer) (*model.FeedItem, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error)
	FindArchivedPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	Search(ctx context.Context, term string, tag string, limit int, offset int) ([]*model.FullPost, error)
}

type Reaction interface {
	ToggleLike(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error)
	ToggleBookmark(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error)
	ToggleRepost(ctx context.Context, postID int64, userID uuid.UUID) (*dto.ToggleResponse, error)
	FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	FindUserReposts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
}

type Follow interface {
	Follow(ctx context.Context, followerID uuid.UUID, username string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) error
	IsFollowing(ctx context.Context, followerID uuid.UUID, username string) (bool, error)
	FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error)
	FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error)
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullComment, error)
	Delete(ctx context.Context, commentID int64, viewer model.Viewer) error
}

type Draft interface {
	Save(ctx context.Context, authorID uuid.UUID, input dto.SaveDraftRequest) (*model.Draft, error)
	FindByID(ctx context.Context, id int64, authorID uuid.UUID) (*model.Draft, error)
	FindAll(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Draft, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
	GetVersions(ctx context.Context, draftID int64, authorID uuid.UUID, limit int, offset int) ([]*model.DraftVersion, error)
}

type Collection interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCollectionRequest) (*model.Collection, error)
	Edit(ctx context.Context, authorID uuid.UUID, input dto.EditCollectionRequest) (*model.Collection, error)
	Delete(ctx context.Context, id int64, viewer model.Viewer) error
	FindUserCollections(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Collection, error)
	FindBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*model.Collection, error)
	FindPosts(ctx context.Context, collectionID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error)
	AddPost(ctx context.Context, viewer model.Viewer, collectionID int64, postID int64) error
	RemovePost(ctx context.Context, viewer model.Viewer, collectionID int64, postID int64) error
}

type Notification interface {
	Push(ctx context.Context, n model.Notification)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int, offset int, unreadOnly bool) ([]*model.FullNotification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	StartConsume(ctx context.Context)
}

type Service struct {
	Feed
	Post
	Reaction
	Follow
	Comment
	Notification
	Draft
	Collection
	UserCache
}

func New(logger *zap.Logger, repo *repository.Repository, rabbitmq *rabbitmq.MQConn, hub *ws.Hub) *Service {
	notification := newNotificationService(logger, repo, hub)

	return &Service{
		Feed:         newFeedService(logger, repo),
		Post:         newPostService(logger, repo, rabbitmq),
		Reaction:     newReactionService(logger, repo, notification),
		Follow:       newFollowService(logger, repo, notification),
		Comment:      newCommentService(logger, repo, notification),
		Notification: notification,
		Draft:        newDraftService(logger, repo),
		Collection:   newCollectionService(logger, repo),
		UserCache:    newUserCacheService(logger, repo, rabbitmq),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.UserCache.StartConsume(ctx)
}
