package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationRepost  NotificationType = "REPOST"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      NotificationType `json:"type"`
	ActorID   uuid.UUID        `json:"actor_id"`
	PostID    *int64           `json:"post_id"`
	CommentID *int64           `json:"comment_id"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`
}

type FullNotification struct {
	Notification Notification `json:"notification"`
	Actor        UserAuthor   `json:"actor"`
	PostTitle    *string      `json:"post_title"`
}
