package timeline

import (
	"github.com/hadiwyne/write-space/internal/model"
)

// Visible decides whether a post may be shown to the viewer. It is pure and
// total: all the facts it needs (including whether the viewer follows the
// author) are passed in, so every read path shares one predicate instead of
// re-deriving the boolean logic per query.
//
// Rules, in order:
//  1. privileged viewers see everything
//  2. unpublished posts, and archived posts for anyone but the author, are hidden
//  3. PUBLIC posts are visible
//  4. FOLLOWERS_ONLY posts are visible to the author and to followers
//  5. everything else (including anonymous viewers on FOLLOWERS_ONLY) is hidden
func Visible(post model.Post, viewer model.Viewer, isFollowerOfAuthor bool) bool {
	if viewer.Privileged {
		return true
	}
	if !post.IsPublished || post.PublishedAt == nil {
		return false
	}
	if post.ArchivedAt != nil && !viewer.Is(post.AuthorID) {
		return false
	}
	switch post.Visibility {
	case model.VisibilityPublic:
		return true
	case model.VisibilityFollowersOnly:
		return viewer.Is(post.AuthorID) || (viewer.Authenticated() && isFollowerOfAuthor)
	default:
		return false
	}
}
