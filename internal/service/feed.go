package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/redisrepo"
	"github.com/hadiwyne/write-space/internal/timeline"
)

const (
	// The popularity modes rank a bounded candidate window, not the whole
	// table: the window is proportional to the page so a page near the top
	// is exact and deeper pages degrade gracefully.
	popularCandidateFactor = 2
	trendingPostsWindow    = 50
	trendingTagsScanLimit  = 5000

	trendingCacheTTL = 5 * time.Minute
	publicFeedTTL    = time.Minute
)

// coerceLimit is coercePage for operations without an offset: non-positive
// limits fall back to the operation's default, oversized ones to the cap.
func coerceLimit(limit *int, def int) {
	if *limit <= 0 {
		*limit = def
	}
	maxLimit(limit)
}

type feedService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newFeedService(logger *zap.Logger, repo *repository.Repository) Feed {
	return &feedService{
		logger: logger,
		repo:   repo,
	}
}

func (s *feedService) GetChronological(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error) {
	coercePage(&limit, &offset)
	tag = timeline.NormalizeTag(tag)

	// The anonymous feed is identical for everyone (no viewer flags), so
	// pages are served from a short-lived cache keyed by page and tag.
	if !viewer.Authenticated() {
		cached, err := redisrepo.GetMany[model.FeedItem](s.repo.Redis.Default, ctx, redisrepo.PublicFeedKey(limit, offset, tag))
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get public feed page from redis: %s", err.Error())
			return nil, ErrInternal
		}
	}

	f := model.FeedFilter{
		Viewer: viewer,
		Tag:    tag,
		Fetch:  limit + offset,
	}

	items, err := s.assemble(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}

	if !viewer.Authenticated() {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PublicFeedKey(limit, offset, tag), items, publicFeedTTL); err != nil {
			s.logger.Sugar().Errorf("failed to set public feed page in redis: %s", err.Error())
		}
	}

	return items, nil
}

func (s *feedService) GetFriends(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error) {
	coercePage(&limit, &offset)

	// Friends mode never falls back to the global stream.
	if !viewer.Authenticated() {
		return []*model.FeedItem{}, nil
	}

	following, err := s.repo.Postgres.Follow.FollowingIDs(ctx, *viewer.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get following ids for user(%s): %s", viewer.ID.String(), err.Error())
		return nil, ErrInternal
	}

	f := model.FeedFilter{
		Viewer:    viewer,
		AuthorIDs: append(following, *viewer.ID),
		Tag:       timeline.NormalizeTag(tag),
		Fetch:     limit + offset,
	}

	return s.assemble(ctx, f, limit, offset)
}

func (s *feedService) GetPopular(ctx context.Context, viewer model.Viewer, tag string, limit int, offset int) ([]*model.FeedItem, error) {
	coercePage(&limit, &offset)

	f := model.FeedFilter{
		Viewer: viewer,
		Tag:    timeline.NormalizeTag(tag),
	}

	candidates, err := s.repo.Postgres.Timeline.EngagementWindow(ctx, f, limit*popularCandidateFactor, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query engagement window: %s", err.Error())
		return nil, ErrInternal
	}

	ranked := timeline.RankByScore(candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int64, 0, len(ranked))
	for _, candidate := range ranked {
		ids = append(ids, candidate.PostID)
	}

	return s.hydrateIDs(ctx, viewer, ids)
}

func (s *feedService) GetTrendingPosts(ctx context.Context, viewer model.Viewer, limit int) ([]*model.FeedItem, error) {
	coerceLimit(&limit, DEFAULT_TRENDING_POSTS_LIMIT)

	// Trending for anonymous viewers is identical for everyone, so it is
	// served from cache; authenticated viewers carry per-viewer flags.
	if !viewer.Authenticated() {
		cached, err := redisrepo.GetMany[model.FeedItem](s.repo.Redis.Default, ctx, redisrepo.TrendingPostsKey(limit))
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get trending posts from redis: %s", err.Error())
			return nil, ErrInternal
		}
	}

	window := trendingPostsWindow
	if limit*popularCandidateFactor > window {
		window = limit * popularCandidateFactor
	}

	candidates, err := s.repo.Postgres.Timeline.EngagementWindow(ctx, model.FeedFilter{Viewer: viewer}, window, 0)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query trending candidates: %s", err.Error())
		return nil, ErrInternal
	}

	ranked := timeline.RankByScore(candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int64, 0, len(ranked))
	for _, candidate := range ranked {
		ids = append(ids, candidate.PostID)
	}

	items, err := s.hydrateIDs(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	if !viewer.Authenticated() {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.TrendingPostsKey(limit), items, trendingCacheTTL); err != nil {
			s.logger.Sugar().Errorf("failed to set trending posts in redis: %s", err.Error())
		}
	}

	return items, nil
}

func (s *feedService) GetTrendingTags(ctx context.Context, viewer model.Viewer, limit int) ([]*model.TagCount, error) {
	coerceLimit(&limit, DEFAULT_TRENDING_TAGS_LIMIT)

	if !viewer.Authenticated() {
		cached, err := redisrepo.GetMany[model.TagCount](s.repo.Redis.Default, ctx, redisrepo.TrendingTagsKey(limit))
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get trending tags from redis: %s", err.Error())
			return nil, ErrInternal
		}
	}

	tagSets, err := s.repo.Postgres.Timeline.RecentTagSets(ctx, viewer, trendingTagsScanLimit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query recent tag sets: %s", err.Error())
		return nil, ErrInternal
	}

	counted := timeline.CountTags(tagSets, limit)
	tags := make([]*model.TagCount, len(counted))
	for i := range counted {
		tags[i] = &counted[i]
	}

	if !viewer.Authenticated() {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.TrendingTagsKey(limit), tags, trendingCacheTTL); err != nil {
			s.logger.Sugar().Errorf("failed to set trending tags in redis: %s", err.Error())
		}
	}

	return tags, nil
}

// assemble runs the two event sub-stream queries, merges and pages them, and
// hydrates the page. Each sub-stream is fetched down to limit+offset so the
// page cut happens on the merged stream, never on a sub-stream.
func (s *feedService) assemble(ctx context.Context, f model.FeedFilter, limit int, offset int) ([]*model.FeedItem, error) {
	originals, err := s.repo.Postgres.Timeline.OriginalEvents(ctx, f)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query original post events: %s", err.Error())
		return nil, ErrInternal
	}

	reposts, err := s.repo.Postgres.Timeline.RepostEvents(ctx, f)
	if err != nil {
		s.logger.Sugar().Errorf("failed to query repost events: %s", err.Error())
		return nil, ErrInternal
	}

	page := timeline.Page(timeline.Merge(originals, reposts), limit, offset)

	return s.hydrate(ctx, f.Viewer, page)
}

func (s *feedService) hydrateIDs(ctx context.Context, viewer model.Viewer, ids []int64) ([]*model.FeedItem, error) {
	events := make([]timeline.Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, timeline.Event{PostID: id})
	}

	return s.hydrate(ctx, viewer, events)
}

// hydrate turns an event page into full feed items: posts are fetched once
// per distinct ID, viewer flags are resolved in batched membership queries,
// and repost events get their provenance attached.
func (s *feedService) hydrate(ctx context.Context, viewer model.Viewer, events []timeline.Event) ([]*model.FeedItem, error) {
	if len(events) == 0 {
		return []*model.FeedItem{}, nil
	}

	var postIDs []int64
	var reposterIDs []uuid.UUID
	seenPosts := make(map[int64]bool)
	seenReposters := make(map[uuid.UUID]bool)
	for _, event := range events {
		if !seenPosts[event.PostID] {
			seenPosts[event.PostID] = true
			postIDs = append(postIDs, event.PostID)
		}
		if event.IsRepost() && !seenReposters[event.ReposterID] {
			seenReposters[event.ReposterID] = true
			reposterIDs = append(reposterIDs, event.ReposterID)
		}
	}

	posts, err := s.repo.Postgres.Post.FindFullByIDs(ctx, postIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hydrate posts: %s", err.Error())
		return nil, ErrInternal
	}

	var liked, bookmarked, reposted map[int64]bool
	if viewer.Authenticated() {
		if liked, err = s.repo.Postgres.Reaction.LikedSet(ctx, *viewer.ID, postIDs); err != nil {
			s.logger.Sugar().Errorf("failed to resolve liked set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
		if bookmarked, err = s.repo.Postgres.Reaction.BookmarkedSet(ctx, *viewer.ID, postIDs); err != nil {
			s.logger.Sugar().Errorf("failed to resolve bookmarked set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
		if reposted, err = s.repo.Postgres.Reaction.RepostedSet(ctx, *viewer.ID, postIDs); err != nil {
			s.logger.Sugar().Errorf("failed to resolve reposted set for user(%s): %s", viewer.ID.String(), err.Error())
			return nil, ErrInternal
		}
	}

	reposters := make(map[uuid.UUID]model.UserAuthor)
	if len(reposterIDs) > 0 {
		if reposters, err = s.repo.Postgres.UserCache.FindByIDs(ctx, reposterIDs); err != nil {
			s.logger.Sugar().Errorf("failed to resolve reposters: %s", err.Error())
			return nil, ErrInternal
		}
	}

	items := make([]*model.FeedItem, 0, len(events))
	for _, event := range events {
		full, ok := posts[event.PostID]
		if !ok {
			// Deleted between the event query and hydration.
			continue
		}

		item := model.FeedItem{
			FullPost:     *full,
			IsLiked:      liked[event.PostID],
			IsBookmarked: bookmarked[event.PostID],
			IsReposted:   reposted[event.PostID],
		}
		if event.IsRepost() {
			item.Repost = &model.RepostInfo{
				RepostID:   event.RepostID,
				ReposterID: event.ReposterID,
				Reposter:   reposters[event.ReposterID],
				RepostedAt: event.At,
			}
		}

		items = append(items, &item)
	}

	return items, nil
}
