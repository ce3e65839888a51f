package dto

import "time"

type MQPostPublishedMsg struct {
	PostID      int64     `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}
