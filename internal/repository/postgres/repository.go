package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/timeline"
)

const MAX_LIMIT = 100

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	Update(ctx context.Context, post model.Post) error
	Delete(ctx context.Context, id int64) error
	SetArchived(ctx context.Context, id int64, archived bool) (*model.Post, error)
	IncrViews(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	FindFullByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindFullByIDs(ctx context.Context, ids []int64) (map[int64]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error)
	FindArchivedPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	Search(ctx context.Context, term string, tag string, limit int, offset int) ([]*model.FullPost, error)
}

type Timeline interface {
	OriginalEvents(ctx context.Context, f model.FeedFilter) ([]timeline.Event, error)
	RepostEvents(ctx context.Context, f model.FeedFilter) ([]timeline.Event, error)
	EngagementWindow(ctx context.Context, f model.FeedFilter, limit int, offset int) ([]model.PostEngagement, error)
	RecentTagSets(ctx context.Context, viewer model.Viewer, max int) ([][]string, error)
}

type Reaction interface {
	ToggleLike(ctx context.Context, postID int64, userID uuid.UUID) (bool, int64, error)
	ToggleBookmark(ctx context.Context, postID int64, userID uuid.UUID) (bool, error)
	ToggleRepost(ctx context.Context, postID int64, userID uuid.UUID) (bool, int64, error)
	LikedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error)
	BookmarkedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error)
	RepostedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error)
	FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	FindUserReposts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
}

type Follow interface {
	Create(ctx context.Context, followerID, followingID uuid.UUID) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error)
	FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error)
	Delete(ctx context.Context, commentID int64, authorID uuid.UUID) error
}

type Notification interface {
	Create(ctx context.Context, n model.Notification) (*model.FullNotification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int, offset int, unreadOnly bool) ([]*model.FullNotification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type Draft interface {
	Create(ctx context.Context, draft model.Draft) (*model.Draft, error)
	Update(ctx context.Context, draft model.Draft) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Draft, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Draft, error)
	CreateVersion(ctx context.Context, v model.DraftVersion) error
	FindVersions(ctx context.Context, draftID int64, limit int, offset int) ([]*model.DraftVersion, error)
}

type Collection interface {
	Create(ctx context.Context, c model.Collection) (*model.Collection, error)
	Update(ctx context.Context, c model.Collection) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Collection, error)
	FindBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Collection, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Collection, error)
	AddPost(ctx context.Context, collectionID int64, postID int64) error
	RemovePost(ctx context.Context, collectionID int64, postID int64) error
	FindPosts(ctx context.Context, collectionID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error)
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.UserAuthor, error)
	FindByUsername(ctx context.Context, username string) (*model.CachedUser, error)
}

type PostgresRepository struct {
	Post
	Timeline
	Reaction
	Follow
	Comment
	Notification
	Draft
	Collection
	UserCache
}

func New(db *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Post:         newPostRepo(db),
		Timeline:     newTimelineRepo(db),
		Reaction:     newReactionRepo(db),
		Follow:       newFollowRepo(db),
		Comment:      newCommentRepo(db),
		Notification: newNotificationRepo(db),
		Draft:        newDraftRepo(db),
		Collection:   newCollectionRepo(db),
		UserCache:    newUserCacheRepo(db),
	}
}
