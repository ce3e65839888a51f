package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/timeline"
)

type timelineRepo struct {
	db *pgxpool.Pool
}

func newTimelineRepo(db *pgxpool.Pool) Timeline {
	return &timelineRepo{
		db: db,
	}
}

// visibilityClause composes the single SQL predicate gating post p for the
// viewer. Every feed-shaped query goes through here so the visibility logic
// is never re-derived at a call site, and viewer ids only ever travel as
// bind parameters.
func visibilityClause(v model.Viewer, args *[]interface{}) string {
	if v.Privileged {
		return "TRUE"
	}

	base := "p.is_published AND p.published_at IS NOT NULL"
	if v.ID == nil {
		return base + " AND p.archived_at IS NULL AND p.visibility = 'PUBLIC'"
	}

	*args = append(*args, *v.ID)
	n := strconv.Itoa(len(*args))
	return base +
		" AND (p.archived_at IS NULL OR p.author_id = $" + n + ")" +
		" AND (p.visibility = 'PUBLIC' OR p.author_id = $" + n +
		" OR EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $" + n + " AND f.following_id = p.author_id))"
}

func tagClause(tag string, args *[]interface{}) string {
	if tag == "" {
		return ""
	}
	*args = append(*args, tag)
	return " AND $" + strconv.Itoa(len(*args)) + " = ANY(p.tags)"
}

func (r *timelineRepo) OriginalEvents(ctx context.Context, f model.FeedFilter) ([]timeline.Event, error) {
	var args []interface{}
	query := "SELECT p.id, p.published_at FROM posts p WHERE " + visibilityClause(f.Viewer, &args)
	query += tagClause(f.Tag, &args)
	if f.AuthorIDs != nil {
		args = append(args, f.AuthorIDs)
		query += " AND p.author_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	args = append(args, f.Fetch)
	query += " ORDER BY p.published_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []timeline.Event
	for rows.Next() {
		var event timeline.Event
		if err := rows.Scan(&event.PostID, &event.At); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *timelineRepo) RepostEvents(ctx context.Context, f model.FeedFilter) ([]timeline.Event, error) {
	var args []interface{}
	// The repost sub-stream is gated by the underlying post's visibility;
	// who reposted it does not widen or narrow access.
	query := `SELECT r.post_id, r.created_at, r.id, r.user_id
	FROM reposts r
	JOIN posts p ON p.id = r.post_id
	WHERE ` + visibilityClause(f.Viewer, &args)
	query += tagClause(f.Tag, &args)
	if f.AuthorIDs != nil {
		args = append(args, f.AuthorIDs)
		query += " AND r.user_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	args = append(args, f.Fetch)
	query += " ORDER BY r.created_at DESC, r.post_id DESC, r.id DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []timeline.Event
	for rows.Next() {
		var event timeline.Event
		if err := rows.Scan(&event.PostID, &event.At, &event.RepostID, &event.ReposterID); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *timelineRepo) EngagementWindow(ctx context.Context, f model.FeedFilter, limit int, offset int) ([]model.PostEngagement, error) {
	maxLimit(&limit)

	var args []interface{}
	query := `SELECT
	p.id,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
	FROM posts p
	WHERE ` + visibilityClause(f.Viewer, &args)
	query += tagClause(f.Tag, &args)
	args = append(args, limit, offset)
	query += " ORDER BY p.published_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []model.PostEngagement
	for rows.Next() {
		var candidate model.PostEngagement
		if err := rows.Scan(&candidate.PostID, &candidate.Likes, &candidate.Comments); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	return candidates, rows.Err()
}

func (r *timelineRepo) RecentTagSets(ctx context.Context, viewer model.Viewer, max int) ([][]string, error) {
	var args []interface{}
	query := "SELECT p.tags FROM posts p WHERE " + visibilityClause(viewer, &args)
	args = append(args, max)
	query += " ORDER BY p.published_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tagSets [][]string
	for rows.Next() {
		var tags []string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		tagSets = append(tagSets, tags)
	}

	return tagSets, rows.Err()
}
