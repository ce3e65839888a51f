package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/rabbitmq"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/postgres"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
)

func (f *fakePostRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	if full, ok := f.full[id]; ok {
		post := full.Post
		return &post, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) FindFullByID(ctx context.Context, id int64) (*model.FullPost, error) {
	f.findFullCalls++
	if full, ok := f.full[id]; ok {
		return full, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	f.nextID++
	post.ID = f.nextID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.full[post.ID] = &model.FullPost{Post: post}
	return &post, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post model.Post) error {
	full, ok := f.full[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	full.Post = post
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	delete(f.full, id)
	return nil
}

func (f *fakePostRepo) IncrViews(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeFollowRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return f.exists, nil
}

type fakeBroker struct {
	queues []string
	bodies [][]byte
}

func (f *fakeBroker) Publish(ctx context.Context, queue string, body []byte) error {
	f.queues = append(f.queues, queue)
	f.bodies = append(f.bodies, body)
	return nil
}

type postFixture struct {
	posts   *fakePostRepo
	follows *fakeFollowRepo
	broker  *fakeBroker
	svc     Post
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &postFixture{
		posts:   &fakePostRepo{full: make(map[int64]*model.FullPost)},
		follows: &fakeFollowRepo{},
		broker:  &fakeBroker{},
	}

	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:      f.posts,
			Follow:    f.follows,
			Reaction:  &fakeReactionRepo{},
			UserCache: &fakeUserCacheRepo{authors: make(map[uuid.UUID]model.UserAuthor)},
		},
		Redis: redisrepo.New(rdb),
	}

	f.svc = newPostService(zap.NewNop(), repo, f.broker)
	return f
}

func (f *postFixture) seed(post model.Post) {
	f.posts.full[post.ID] = &model.FullPost{Post: post, Author: model.UserAuthor{ID: post.AuthorID}}
}

func publishedPost(id int64, author uuid.UUID, visibility model.Visibility) model.Post {
	publishedAt := time.Now().Add(-time.Hour)
	return model.Post{
		ID:          id,
		AuthorID:    author,
		Title:       "title",
		IsPublished: true,
		PublishedAt: &publishedAt,
		Visibility:  visibility,
	}
}

func TestFindByIDHidesPostsByPolicy(t *testing.T) {
	author := uuid.New()
	stranger := uuid.New()
	archivedAt := time.Now()

	tests := []struct {
		name       string
		post       model.Post
		viewer     model.Viewer
		isFollower bool
		wantHidden bool
	}{
		{
			name:       "unpublished hidden from everyone but privileged",
			post:       model.Post{ID: 1, AuthorID: author},
			viewer:     model.UserViewer(author, false),
			wantHidden: true,
		},
		{
			name: "archived hidden from strangers",
			post: func() model.Post {
				p := publishedPost(1, author, model.VisibilityPublic)
				p.ArchivedAt = &archivedAt
				return p
			}(),
			viewer:     model.UserViewer(stranger, false),
			wantHidden: true,
		},
		{
			name: "archived visible to author",
			post: func() model.Post {
				p := publishedPost(1, author, model.VisibilityPublic)
				p.ArchivedAt = &archivedAt
				return p
			}(),
			viewer: model.UserViewer(author, false),
		},
		{
			name:       "followers-only hidden from non-followers",
			post:       publishedPost(1, author, model.VisibilityFollowersOnly),
			viewer:     model.UserViewer(stranger, false),
			wantHidden: true,
		},
		{
			name:       "followers-only visible to followers",
			post:       publishedPost(1, author, model.VisibilityFollowersOnly),
			viewer:     model.UserViewer(stranger, false),
			isFollower: true,
		},
		{
			name:       "followers-only hidden from anonymous",
			post:       publishedPost(1, author, model.VisibilityFollowersOnly),
			viewer:     model.AnonymousViewer(),
			wantHidden: true,
		},
		{
			name:   "privileged sees unpublished",
			post:   model.Post{ID: 1, AuthorID: author},
			viewer: model.UserViewer(stranger, true),
		},
		{
			name:   "public visible to anonymous",
			post:   publishedPost(1, author, model.VisibilityPublic),
			viewer: model.AnonymousViewer(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture(t)
			f.seed(tt.post)
			f.follows.exists = tt.isFollower

			item, err := f.svc.FindByID(context.Background(), tt.post.ID, tt.viewer)
			if tt.wantHidden {
				// Policy-hidden posts are indistinguishable from missing ones.
				assert.ErrorIs(t, err, ErrPostNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.post.ID, item.Post.ID)
		})
	}
}

func TestFindByIDMissingPostIsNotFound(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.svc.FindByID(context.Background(), 999, model.AnonymousViewer())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestFindByIDReadsThroughCache(t *testing.T) {
	f := newPostFixture(t)
	author := uuid.New()
	f.seed(publishedPost(1, author, model.VisibilityPublic))

	_, err := f.svc.FindByID(context.Background(), 1, model.AnonymousViewer())
	require.NoError(t, err)
	calls := f.posts.findFullCalls

	_, err = f.svc.FindByID(context.Background(), 1, model.AnonymousViewer())
	require.NoError(t, err)
	assert.Equal(t, calls, f.posts.findFullCalls)
}

func TestCreatePublishedSetsPublishedAtAndAnnounces(t *testing.T) {
	f := newPostFixture(t)
	author := uuid.New()

	post, err := f.svc.Create(context.Background(), author, dto.CreatePostRequest{
		Title:       "hello",
		Content:     "world",
		Tags:        []string{"Go", "go", "  Writing "},
		IsPublished: true,
	})
	require.NoError(t, err)

	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, []string{"go", "writing"}, post.Tags)
	assert.Equal(t, model.VisibilityPublic, post.Visibility)
	require.Len(t, f.broker.queues, 1)
	assert.Equal(t, rabbitmq.POST_PUBLISHED_QUEUE, f.broker.queues[0])
}

func TestCreateDraftHasNoPublishedAt(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{
		Title:   "draft",
		Content: "wip",
	})
	require.NoError(t, err)

	assert.Nil(t, post.PublishedAt)
	assert.Empty(t, f.broker.queues)
}

func TestEditKeepsOriginalPublishTimestamp(t *testing.T) {
	f := newPostFixture(t)
	author := uuid.New()
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, dto.CreatePostRequest{
		Title:       "hello",
		Content:     "world",
		IsPublished: true,
	})
	require.NoError(t, err)
	originalPublishedAt := *post.PublishedAt

	unpublish := false
	post, err = f.svc.Edit(ctx, author, dto.EditPostRequest{ID: post.ID, IsPublished: &unpublish})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)

	republish := true
	post, err = f.svc.Edit(ctx, author, dto.EditPostRequest{ID: post.ID, IsPublished: &republish})
	require.NoError(t, err)

	// Re-publishing must not move the post to the top of chronological feeds.
	assert.Equal(t, originalPublishedAt, *post.PublishedAt)
}

func TestEditRejectsNonAuthor(t *testing.T) {
	f := newPostFixture(t)
	author := uuid.New()
	f.seed(publishedPost(1, author, model.VisibilityPublic))

	title := "hijacked"
	_, err := f.svc.Edit(context.Background(), uuid.New(), dto.EditPostRequest{ID: 1, Title: &title})
	assert.ErrorIs(t, err, ErrNotYourPost)
}

func TestDeleteAllowsAuthorAndPrivileged(t *testing.T) {
	author := uuid.New()

	f := newPostFixture(t)
	f.seed(publishedPost(1, author, model.VisibilityPublic))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), 1, model.UserViewer(uuid.New(), false)), ErrNotYourPost)
	assert.NoError(t, f.svc.Delete(context.Background(), 1, model.UserViewer(author, false)))

	f = newPostFixture(t)
	f.seed(publishedPost(1, author, model.VisibilityPublic))
	assert.NoError(t, f.svc.Delete(context.Background(), 1, model.UserViewer(uuid.New(), true)))
}
