package model

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a user-curated, ordered set of posts addressed by a slug
// that is unique per author. Collections only curate; each contained post
// still answers to its own visibility policy when listed.
type Collection struct {
	ID          int64     `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
