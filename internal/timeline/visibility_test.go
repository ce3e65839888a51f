package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hadiwyne/write-space/internal/model"
)

func publishedPost(author uuid.UUID, vis model.Visibility) model.Post {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Post{
		ID:          1,
		AuthorID:    author,
		IsPublished: true,
		PublishedAt: &at,
		Visibility:  vis,
	}
}

func TestVisible(t *testing.T) {
	author := uuid.New()
	follower := uuid.New()
	stranger := uuid.New()
	archivedAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	archived := publishedPost(author, model.VisibilityPublic)
	archived.ArchivedAt = &archivedAt

	unpublished := publishedPost(author, model.VisibilityPublic)
	unpublished.IsPublished = false
	unpublished.PublishedAt = nil

	tests := []struct {
		name       string
		post       model.Post
		viewer     model.Viewer
		isFollower bool
		want       bool
	}{
		{"public post, anonymous viewer", publishedPost(author, model.VisibilityPublic), model.AnonymousViewer(), false, true},
		{"public post, stranger", publishedPost(author, model.VisibilityPublic), model.UserViewer(stranger, false), false, true},
		{"unpublished post, stranger", unpublished, model.UserViewer(stranger, false), false, false},
		{"unpublished post, author", unpublished, model.UserViewer(author, false), false, false},
		{"unpublished post, privileged", unpublished, model.UserViewer(stranger, true), false, true},
		{"archived post, stranger", archived, model.UserViewer(stranger, false), false, false},
		{"archived post, author", archived, model.UserViewer(author, false), false, true},
		{"archived post, privileged", archived, model.UserViewer(stranger, true), false, true},
		{"followers-only, anonymous viewer", publishedPost(author, model.VisibilityFollowersOnly), model.AnonymousViewer(), false, false},
		{"followers-only, author", publishedPost(author, model.VisibilityFollowersOnly), model.UserViewer(author, false), false, true},
		{"followers-only, follower", publishedPost(author, model.VisibilityFollowersOnly), model.UserViewer(follower, false), true, true},
		{"followers-only, non-follower", publishedPost(author, model.VisibilityFollowersOnly), model.UserViewer(stranger, false), false, false},
		{"followers-only, privileged non-follower", publishedPost(author, model.VisibilityFollowersOnly), model.UserViewer(stranger, true), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.post, tt.viewer, tt.isFollower))
		})
	}
}

// A FOLLOWERS_ONLY post visible to an unprivileged viewer implies the viewer
// is the author or a follower; sweep the input space to confirm.
func TestVisibleFollowersOnlyImpliesFollowerOrSelf(t *testing.T) {
	author := uuid.New()
	post := publishedPost(author, model.VisibilityFollowersOnly)

	viewers := []model.Viewer{
		model.AnonymousViewer(),
		model.UserViewer(author, false),
		model.UserViewer(uuid.New(), false),
	}
	for _, viewer := range viewers {
		for _, isFollower := range []bool{false, true} {
			if Visible(post, viewer, isFollower) {
				assert.True(t, viewer.Is(author) || isFollower,
					"followers-only post leaked to viewer=%v follower=%v", viewer, isFollower)
			}
		}
	}
}
