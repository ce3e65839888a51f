package model

import "github.com/google/uuid"

// FeedFilter narrows the event sub-stream queries. AuthorIDs nil means the
// global stream; a non-nil set restricts originals to those authors and
// reposts to those reposters. Tag must already be normalized.
type FeedFilter struct {
	Viewer    Viewer
	AuthorIDs []uuid.UUID
	Tag       string
	Fetch     int
}
