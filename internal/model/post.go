package model

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic        Visibility = "PUBLIC"
	VisibilityFollowersOnly Visibility = "FOLLOWERS_ONLY"
)

type Post struct {
	ID           int64      `json:"id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	ContentType  string     `json:"content_type"`
	RenderedHTML string     `json:"rendered_html"`
	Tags         []string   `json:"tags"`
	ImageURLs    []string   `json:"image_urls"`
	IsPublished  bool       `json:"is_published"`
	PublishedAt  *time.Time `json:"published_at"`
	ArchivedAt   *time.Time `json:"archived_at"`
	Visibility   Visibility `json:"visibility"`
	Views        int64      `json:"views"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Reposts  int64 `json:"reposts"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
	Counts PostCounts `json:"counts"`
}

// PostEngagement is the slim candidate row the popularity ranker sorts.
type PostEngagement struct {
	PostID   int64 `json:"post_id"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

type RepostInfo struct {
	RepostID   int64      `json:"repost_id"`
	ReposterID uuid.UUID  `json:"reposter_id"`
	Reposter   UserAuthor `json:"reposter"`
	RepostedAt time.Time  `json:"reposted_at"`
}

// FeedItem is a fully hydrated feed entry: the post, its author summary,
// viewer-relative flags and, for repost events, the repost provenance.
type FeedItem struct {
	FullPost
	IsLiked      bool        `json:"is_liked"`
	IsBookmarked bool        `json:"is_bookmarked"`
	IsReposted   bool        `json:"is_reposted"`
	Repost       *RepostInfo `json:"repost,omitempty"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
