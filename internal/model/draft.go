package model

import (
	"time"

	"github.com/google/uuid"
)

// Draft is standalone scratch space for its author. Drafts never enter any
// feed and are never visible to other users.
type Draft struct {
	ID          int64     `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DraftVersion is the snapshot of a draft's content taken right before an
// autosave overwrites it.
type DraftVersion struct {
	ID      int64     `json:"id"`
	DraftID int64     `json:"draft_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}
