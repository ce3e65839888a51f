package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/postgres"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
	"github.com/hadiwyne/write-space/internal/timeline"
)

type fakeTimelineRepo struct {
	originals  []timeline.Event
	reposts    []timeline.Event
	engagement []model.PostEngagement
	tagSets    [][]string

	lastFilter model.FeedFilter
	calls      int
}

func (f *fakeTimelineRepo) OriginalEvents(ctx context.Context, filter model.FeedFilter) ([]timeline.Event, error) {
	f.lastFilter = filter
	f.calls++
	if filter.Fetch > 0 && len(f.originals) > filter.Fetch {
		return f.originals[:filter.Fetch], nil
	}
	return f.originals, nil
}

func (f *fakeTimelineRepo) RepostEvents(ctx context.Context, filter model.FeedFilter) ([]timeline.Event, error) {
	if filter.Fetch > 0 && len(f.reposts) > filter.Fetch {
		return f.reposts[:filter.Fetch], nil
	}
	return f.reposts, nil
}

func (f *fakeTimelineRepo) EngagementWindow(ctx context.Context, filter model.FeedFilter, limit int, offset int) ([]model.PostEngagement, error) {
	f.calls++
	if offset >= len(f.engagement) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.engagement) {
		end = len(f.engagement)
	}
	return f.engagement[offset:end], nil
}

func (f *fakeTimelineRepo) RecentTagSets(ctx context.Context, viewer model.Viewer, max int) ([][]string, error) {
	f.calls++
	return f.tagSets, nil
}

type fakePostRepo struct {
	postgres.Post

	full          map[int64]*model.FullPost
	nextID        int64
	findFullCalls int
}

func (f *fakePostRepo) FindFullByIDs(ctx context.Context, ids []int64) (map[int64]*model.FullPost, error) {
	result := make(map[int64]*model.FullPost)
	for _, id := range ids {
		if post, ok := f.full[id]; ok {
			result[id] = post
		}
	}
	return result, nil
}

type fakeReactionRepo struct {
	postgres.Reaction

	liked      map[int64]bool
	bookmarked map[int64]bool
	reposted   map[int64]bool
	setCalls   int
}

func (f *fakeReactionRepo) LikedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	f.setCalls++
	return f.liked, nil
}

func (f *fakeReactionRepo) BookmarkedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	f.setCalls++
	return f.bookmarked, nil
}

func (f *fakeReactionRepo) RepostedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	f.setCalls++
	return f.reposted, nil
}

type fakeFollowRepo struct {
	postgres.Follow

	following []uuid.UUID
	exists    bool
}

func (f *fakeFollowRepo) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	return f.following, nil
}

type fakeUserCacheRepo struct {
	postgres.UserCache

	authors map[uuid.UUID]model.UserAuthor
}

func (f *fakeUserCacheRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.UserAuthor, error) {
	return f.authors, nil
}

type feedFixture struct {
	timeline  *fakeTimelineRepo
	posts     *fakePostRepo
	reactions *fakeReactionRepo
	follows   *fakeFollowRepo
	users     *fakeUserCacheRepo
	svc       Feed
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &feedFixture{
		timeline:  &fakeTimelineRepo{},
		posts:     &fakePostRepo{full: make(map[int64]*model.FullPost)},
		reactions: &fakeReactionRepo{},
		follows:   &fakeFollowRepo{},
		users:     &fakeUserCacheRepo{authors: make(map[uuid.UUID]model.UserAuthor)},
	}

	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:      f.posts,
			Timeline:  f.timeline,
			Reaction:  f.reactions,
			Follow:    f.follows,
			UserCache: f.users,
		},
		Redis: redisrepo.New(rdb),
	}

	f.svc = newFeedService(zap.NewNop(), repo)
	return f
}

func (f *feedFixture) addPost(id int64, author uuid.UUID) {
	f.posts.full[id] = &model.FullPost{
		Post:   model.Post{ID: id, AuthorID: author, IsPublished: true},
		Author: model.UserAuthor{ID: author},
	}
}

func TestChronologicalMergesOriginalsAndReposts(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.timeline.originals = []timeline.Event{
		{PostID: 2, At: base.Add(200 * time.Second)},
		{PostID: 1, At: base.Add(100 * time.Second)},
	}
	f.timeline.reposts = []timeline.Event{
		{PostID: 1, At: base.Add(300 * time.Second), RepostID: 7, ReposterID: carol},
	}
	f.addPost(1, alice)
	f.addPost(2, bob)
	f.users.authors[carol] = model.UserAuthor{ID: carol, Username: "carol"}

	items, err := f.svc.GetChronological(ctx, model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Repost of post 1 is newest, then post 2, then post 1's original publish.
	require.NotNil(t, items[0].Repost)
	assert.Equal(t, int64(1), items[0].Post.ID)
	assert.Equal(t, int64(7), items[0].Repost.RepostID)
	assert.Equal(t, "carol", items[0].Repost.Reposter.Username)
	assert.Equal(t, base.Add(300*time.Second), items[0].Repost.RepostedAt)

	assert.Equal(t, int64(2), items[1].Post.ID)
	assert.Nil(t, items[1].Repost)

	assert.Equal(t, int64(1), items[2].Post.ID)
	assert.Nil(t, items[2].Repost)
}

func TestChronologicalSkipsPostsDeletedSinceEventQuery(t *testing.T) {
	f := newFeedFixture(t)

	alice := uuid.New()
	base := time.Now()
	f.timeline.originals = []timeline.Event{
		{PostID: 5, At: base},
		{PostID: 6, At: base.Add(-time.Minute)},
	}
	f.addPost(6, alice)

	items, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(6), items[0].Post.ID)
}

func TestChronologicalCoercesInvalidPagination(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "", -5, -3)
	require.NoError(t, err)

	// Bad input degrades to defaults; each sub-stream is fetched to the top
	// limit+offset so the merged page is exact.
	assert.Equal(t, DEFAULT_FEED_LIMIT, f.timeline.lastFilter.Fetch)
}

func TestChronologicalCapsLimit(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "", 5000, 0)
	require.NoError(t, err)

	assert.Equal(t, MAX_LIMIT, f.timeline.lastFilter.Fetch)
}

func TestChronologicalPagesAreDisjointAndContiguous(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := uuid.New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 5; i++ {
		f.timeline.originals = append(f.timeline.originals, timeline.Event{
			PostID: i,
			At:     base.Add(time.Duration(-i) * time.Minute),
		})
		f.addPost(i, author)
	}

	var all []int64
	for offset := 0; offset < 6; offset += 2 {
		items, err := f.svc.GetChronological(ctx, model.AnonymousViewer(), "", 2, offset)
		require.NoError(t, err)
		for _, item := range items {
			all = append(all, item.Post.ID)
		}
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, all)
}

func TestFriendsFeedEmptyForAnonymous(t *testing.T) {
	f := newFeedFixture(t)
	f.timeline.originals = []timeline.Event{{PostID: 1, At: time.Now()}}

	items, err := f.svc.GetFriends(context.Background(), model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	// Never falls back to the global stream.
	assert.Zero(t, f.timeline.calls)
}

func TestFriendsFeedScopesToViewerAndFollowing(t *testing.T) {
	f := newFeedFixture(t)

	viewerID := uuid.New()
	followed := uuid.New()
	f.follows.following = []uuid.UUID{followed}

	_, err := f.svc.GetFriends(context.Background(), model.UserViewer(viewerID, false), "", 20, 0)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{viewerID, followed}, f.timeline.lastFilter.AuthorIDs)
}

func TestViewerFlagsResolvedForAuthenticatedViewer(t *testing.T) {
	f := newFeedFixture(t)

	viewerID := uuid.New()
	author := uuid.New()
	f.timeline.originals = []timeline.Event{
		{PostID: 1, At: time.Now()},
		{PostID: 2, At: time.Now().Add(-time.Minute)},
	}
	f.addPost(1, author)
	f.addPost(2, author)
	f.reactions.liked = map[int64]bool{1: true}
	f.reactions.bookmarked = map[int64]bool{2: true}
	f.reactions.reposted = map[int64]bool{1: true}

	items, err := f.svc.GetChronological(context.Background(), model.UserViewer(viewerID, false), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].IsLiked)
	assert.False(t, items[0].IsBookmarked)
	assert.True(t, items[0].IsReposted)

	assert.False(t, items[1].IsLiked)
	assert.True(t, items[1].IsBookmarked)
	assert.False(t, items[1].IsReposted)
}

func TestViewerFlagsFalseForAnonymous(t *testing.T) {
	f := newFeedFixture(t)

	author := uuid.New()
	f.timeline.originals = []timeline.Event{{PostID: 1, At: time.Now()}}
	f.addPost(1, author)
	f.reactions.liked = map[int64]bool{1: true}

	items, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.False(t, items[0].IsLiked)
	assert.False(t, items[0].IsBookmarked)
	assert.False(t, items[0].IsReposted)
	// Membership queries are skipped entirely for anonymous viewers.
	assert.Zero(t, f.reactions.setCalls)
}

func TestPopularRanksByEngagementScore(t *testing.T) {
	f := newFeedFixture(t)

	author := uuid.New()
	// Scores: post 1 -> 5, post 2 -> 11, post 3 -> 20.
	f.timeline.engagement = []model.PostEngagement{
		{PostID: 1, Likes: 2, Comments: 1},
		{PostID: 2, Likes: 0, Comments: 11},
		{PostID: 3, Likes: 10, Comments: 0},
	}
	for i := int64(1); i <= 3; i++ {
		f.addPost(i, author)
	}

	items, err := f.svc.GetPopular(context.Background(), model.AnonymousViewer(), "", 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(3), items[0].Post.ID)
	assert.Equal(t, int64(2), items[1].Post.ID)
}

func TestTrendingTagsCountsAndCaches(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	f.timeline.tagSets = [][]string{
		{"go", "databases"},
		{"go"},
		{"Go", "writing"},
	}

	tags, err := f.svc.GetTrendingTags(ctx, model.AnonymousViewer(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Equal(t, "go", tags[0].Tag)
	assert.Equal(t, 3, tags[0].Count)

	calls := f.timeline.calls

	// Anonymous trending is served from cache on repeat.
	again, err := f.svc.GetTrendingTags(ctx, model.AnonymousViewer(), 0)
	require.NoError(t, err)
	assert.Equal(t, len(tags), len(again))
	assert.Equal(t, calls, f.timeline.calls)
}

func TestTrendingPostsCachedForAnonymousOnly(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := uuid.New()
	f.timeline.engagement = []model.PostEngagement{{PostID: 1, Likes: 3, Comments: 0}}
	f.addPost(1, author)

	_, err := f.svc.GetTrendingPosts(ctx, model.AnonymousViewer(), 0)
	require.NoError(t, err)
	calls := f.timeline.calls

	_, err = f.svc.GetTrendingPosts(ctx, model.AnonymousViewer(), 0)
	require.NoError(t, err)
	assert.Equal(t, calls, f.timeline.calls)

	// Authenticated viewers carry per-viewer flags, so they bypass the cache.
	_, err = f.svc.GetTrendingPosts(ctx, model.UserViewer(uuid.New(), false), 0)
	require.NoError(t, err)
	assert.Equal(t, calls+1, f.timeline.calls)
}

func TestRepostAppearsAlongsideOriginalOfSamePost(t *testing.T) {
	f := newFeedFixture(t)

	author := uuid.New()
	reposter := uuid.New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f.timeline.originals = []timeline.Event{{PostID: 1, At: base}}
	f.timeline.reposts = []timeline.Event{{PostID: 1, At: base.Add(time.Hour), RepostID: 3, ReposterID: reposter}}
	f.addPost(1, author)
	f.users.authors[reposter] = model.UserAuthor{ID: reposter, Username: "reposter"}

	items, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Same post twice: once as a repost with provenance, once as the original.
	assert.Equal(t, int64(1), items[0].Post.ID)
	assert.NotNil(t, items[0].Repost)
	assert.Equal(t, int64(1), items[1].Post.ID)
	assert.Nil(t, items[1].Repost)
}

func TestTagFilterIsNormalizedBeforeQuerying(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.svc.GetChronological(context.Background(), model.AnonymousViewer(), "  FICTION ", 20, 0)
	require.NoError(t, err)

	// Exact matching happens in the store; the filter only ever carries the
	// normalized form.
	assert.Equal(t, "fiction", f.timeline.lastFilter.Tag)
}

func TestTrendingPostsRespectsCallerLimit(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := uuid.New()
	f.timeline.engagement = []model.PostEngagement{
		{PostID: 1, Likes: 5, Comments: 0},
		{PostID: 2, Likes: 4, Comments: 0},
		{PostID: 3, Likes: 3, Comments: 0},
	}
	for id := int64(1); id <= 3; id++ {
		f.addPost(id, author)
	}

	items, err := f.svc.GetTrendingPosts(ctx, model.UserViewer(uuid.New(), false), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].Post.ID)
	assert.Equal(t, int64(2), items[1].Post.ID)

	// Non-positive limits fall back to the default.
	items, err = f.svc.GetTrendingPosts(ctx, model.UserViewer(uuid.New(), false), -1)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestTrendingTagsRespectsCallerLimit(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	f.timeline.tagSets = [][]string{
		{"go", "writing"},
		{"go", "poetry"},
		{"go"},
	}

	tags, err := f.svc.GetTrendingTags(ctx, model.UserViewer(uuid.New(), false), 1)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Tag)

	// Caches for different limits are independent pages, not one shared entry.
	_, err = f.svc.GetTrendingTags(ctx, model.AnonymousViewer(), 1)
	require.NoError(t, err)
	calls := f.timeline.calls
	_, err = f.svc.GetTrendingTags(ctx, model.AnonymousViewer(), 2)
	require.NoError(t, err)
	assert.Equal(t, calls+1, f.timeline.calls)
}

func TestPublicFeedPageIsCachedForAnonymous(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := uuid.New()
	f.timeline.originals = []timeline.Event{{PostID: 1, At: time.Now()}}
	f.addPost(1, author)

	items, err := f.svc.GetChronological(ctx, model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	calls := f.timeline.calls

	again, err := f.svc.GetChronological(ctx, model.AnonymousViewer(), "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, again, len(items))
	assert.Equal(t, calls, f.timeline.calls)

	// Authenticated pages carry viewer flags and always hit the store.
	_, err = f.svc.GetChronological(ctx, model.UserViewer(uuid.New(), false), "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, calls+1, f.timeline.calls)
}
