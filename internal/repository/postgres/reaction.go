package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type reactionRepo struct {
	db *pgxpool.Pool
}

func newReactionRepo(db *pgxpool.Pool) Reaction {
	return &reactionRepo{
		db: db,
	}
}

func (r *reactionRepo) ToggleLike(ctx context.Context, postID int64, userID uuid.UUID) (bool, int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return false, 0, err
	}

	liked := false
	if tag.RowsAffected() == 0 {
		if _, err := r.db.Exec(
			ctx,
			"INSERT INTO likes(post_id, user_id, created_at) VALUES($1, $2, $3) ON CONFLICT DO NOTHING",
			postID,
			userID,
			time.Now(),
		); err != nil {
			return false, 0, err
		}
		liked = true
	}

	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM likes WHERE post_id = $1", postID).Scan(&count); err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

func (r *reactionRepo) ToggleBookmark(ctx context.Context, postID int64, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM bookmarks WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(
		ctx,
		"INSERT INTO bookmarks(post_id, user_id, created_at) VALUES($1, $2, $3) ON CONFLICT DO NOTHING",
		postID,
		userID,
		time.Now(),
	)
	return err == nil, err
}

func (r *reactionRepo) ToggleRepost(ctx context.Context, postID int64, userID uuid.UUID) (bool, int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM reposts WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return false, 0, err
	}

	reposted := false
	if tag.RowsAffected() == 0 {
		if _, err := r.db.Exec(
			ctx,
			"INSERT INTO reposts(post_id, user_id, created_at) VALUES($1, $2, $3) ON CONFLICT DO NOTHING",
			postID,
			userID,
			time.Now(),
		); err != nil {
			return false, 0, err
		}
		reposted = true
	}

	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reposts WHERE post_id = $1", postID).Scan(&count); err != nil {
		return false, 0, err
	}

	return reposted, count, nil
}

func (r *reactionRepo) membership(ctx context.Context, table string, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return set, nil
	}

	rows, err := r.db.Query(ctx, "SELECT post_id FROM "+table+" WHERE user_id = $1 AND post_id = ANY($2)", userID, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		set[postID] = true
	}

	return set, rows.Err()
}

func (r *reactionRepo) LikedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	return r.membership(ctx, "likes", userID, postIDs)
}

func (r *reactionRepo) BookmarkedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	return r.membership(ctx, "bookmarks", userID, postIDs)
}

func (r *reactionRepo) RepostedSet(ctx context.Context, userID uuid.UUID, postIDs []int64) (map[int64]bool, error) {
	return r.membership(ctx, "reposts", userID, postIDs)
}

func (r *reactionRepo) findClaimedPosts(ctx context.Context, table string, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT p.id FROM `+table+` b
		JOIN posts p ON p.id = b.post_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.post_id DESC
		LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	postRows, err := r.db.Query(ctx, fullPostSelect+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	posts, err := collectFullPosts(postRows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.FullPost, len(posts))
	for _, post := range posts {
		byID[post.Post.ID] = post
	}

	ordered := make([]*model.FullPost, 0, len(ids))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}

	return ordered, nil
}

func (r *reactionRepo) FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	return r.findClaimedPosts(ctx, "bookmarks", userID, limit, offset)
}

func (r *reactionRepo) FindUserReposts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	return r.findClaimedPosts(ctx, "reposts", userID, limit, offset)
}
