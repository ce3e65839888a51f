package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

func newNotificationRepo(db *pgxpool.Pool) Notification {
	return &notificationRepo{
		db: db,
	}
}

const fullNotificationSelect = `SELECT
n.id, n.user_id, n.type, n.actor_id, n.post_id, n.comment_id, n.read_at, n.created_at,
u.id, u.username, u.display_name, u.avatar_url,
p.title
FROM notifications n
JOIN cached_users u ON u.id = n.actor_id
LEFT JOIN posts p ON p.id = n.post_id`

func scanFullNotification(rows interface {
	Scan(dest ...interface{}) error
}) (*model.FullNotification, error) {
	var n model.FullNotification
	if err := rows.Scan(
		&n.Notification.ID,
		&n.Notification.UserID,
		&n.Notification.Type,
		&n.Notification.ActorID,
		&n.Notification.PostID,
		&n.Notification.CommentID,
		&n.Notification.ReadAt,
		&n.Notification.CreatedAt,
		&n.Actor.ID,
		&n.Actor.Username,
		&n.Actor.DisplayName,
		&n.Actor.AvatarURL,
		&n.PostTitle,
	); err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n model.Notification) (*model.FullNotification, error) {
	n.CreatedAt = time.Now()
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO notifications(user_id, type, actor_id, post_id, comment_id, created_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id",
		n.UserID,
		n.Type,
		n.ActorID,
		n.PostID,
		n.CommentID,
		n.CreatedAt,
	).Scan(&n.ID); err != nil {
		return nil, err
	}

	return scanFullNotification(r.db.QueryRow(ctx, fullNotificationSelect+" WHERE n.id = $1", n.ID))
}

func (r *notificationRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit int, offset int, unreadOnly bool) ([]*model.FullNotification, error) {
	maxLimit(&limit)

	query := fullNotificationSelect + " WHERE n.user_id = $1"
	if unreadOnly {
		query += " AND n.read_at IS NULL"
	}
	query += " ORDER BY n.created_at DESC, n.id DESC LIMIT $2 OFFSET $3"

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.FullNotification
	for rows.Next() {
		n, err := scanFullNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL", userID).Scan(&count)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE notifications SET read_at = $1 WHERE id = $2 AND user_id = $3 AND read_at IS NULL", time.Now(), id, userID)
	return err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND read_at IS NULL", time.Now(), userID)
	return err
}
