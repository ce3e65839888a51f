package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type followRepo struct {
	db *pgxpool.Pool
}

func newFollowRepo(db *pgxpool.Pool) Follow {
	return &followRepo{
		db: db,
	}
}

func (r *followRepo) Create(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO follows(follower_id, following_id, created_at) VALUES($1, $2, $3) ON CONFLICT DO NOTHING",
		followerID,
		followingID,
		time.Now(),
	)
	return err
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM follows WHERE follower_id = $1 AND following_id = $2", followerID, followingID)
	return err
}

func (r *followRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		followerID,
		followingID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *followRepo) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, "SELECT following_id FROM follows WHERE follower_id = $1", followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *followRepo) findEdgeUsers(ctx context.Context, query string, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.CachedUser
	for rows.Next() {
		var user model.CachedUser
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *followRepo) FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error) {
	return r.findEdgeUsers(
		ctx,
		`SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN cached_users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
}

func (r *followRepo) FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.CachedUser, error) {
	return r.findEdgeUsers(
		ctx,
		`SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN cached_users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
}
