package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/hadiwyne/write-space/internal/metrics"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/service"
	"github.com/hadiwyne/write-space/internal/ws"
)

type Handler struct {
	services       *service.Service
	hub            *ws.Hub
	metrics        *metrics.Metrics
	metricsHandler http.Handler
}

func New(services *service.Service, hub *ws.Hub, m *metrics.Metrics, metricsHandler http.Handler) *Handler {
	return &Handler{
		services:       services,
		hub:            hub,
		metrics:        m,
		metricsHandler: metricsHandler,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(h.metricsMiddleware)

	r.GET("/metrics", gin.WrapH(h.metricsHandler))

	v1 := r.Group("/api/v1")
	{
		feed := v1.Group("/feed")
		{
			feed.GET("", h.notRequiredAuthMiddleware, h.feedGet)
			feed.GET("/trending/posts", h.notRequiredAuthMiddleware, h.feedTrendingPosts)
			feed.GET("/trending/tags", h.notRequiredAuthMiddleware, h.feedTrendingTags)
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.PATCH("/edit", h.authMiddleware, h.postsEdit)
			posts.GET("/search", h.postsSearch)
			posts.GET("/archived", h.authMiddleware, h.postsGetArchived)
			posts.GET("/bookmarked", h.authMiddleware, h.postsGetBookmarked)
			posts.GET("/reposted", h.authMiddleware, h.postsGetReposted)
			posts.GET("/author/:userID", h.notRequiredAuthMiddleware, h.postsGetByAuthor)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/archive", h.authMiddleware, h.postsArchive)
				post.DELETE("/archive", h.authMiddleware, h.postsUnarchive)
				post.POST("/like", h.authMiddleware, h.postsToggleLike)
				post.POST("/bookmark", h.authMiddleware, h.postsToggleBookmark)
				post.POST("/repost", h.authMiddleware, h.postsToggleRepost)
				post.GET("/comments", h.notRequiredAuthMiddleware, h.commentsGet)
			}
		}

		drafts := v1.Group("/drafts", h.authMiddleware)
		{
			drafts.GET("", h.draftsGetAll)
			drafts.POST("", h.draftsSave)
			drafts.GET("/:draftID", h.draftsGetByID)
			drafts.DELETE("/:draftID", h.draftsDelete)
			drafts.GET("/:draftID/versions", h.draftsGetVersions)
		}

		collections := v1.Group("/collections")
		{
			collections.POST("", h.authMiddleware, h.collectionsCreate)
			collections.PATCH("/edit", h.authMiddleware, h.collectionsEdit)
			collections.DELETE("/:collectionID", h.authMiddleware, h.collectionsDelete)
			collections.GET("/:collectionID/posts", h.notRequiredAuthMiddleware, h.collectionsGetPosts)
			collections.POST("/:collectionID/posts/:postID", h.authMiddleware, h.collectionsAddPost)
			collections.DELETE("/:collectionID/posts/:postID", h.authMiddleware, h.collectionsRemovePost)
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)
			comments.DELETE("/:commentID", h.authMiddleware, h.commentsDelete)
		}

		follows := v1.Group("/follows")
		{
			follows.POST("/:username", h.authMiddleware, h.follow)
			follows.DELETE("/:username", h.authMiddleware, h.unfollow)
			follows.GET("/:username/status", h.authMiddleware, h.isFollowing)
		}

		users := v1.Group("/users")
		{
			users.GET("/:userID/followers", h.usersGetFollowers)
			users.GET("/:userID/following", h.usersGetFollowing)
			users.GET("/:userID/collections", h.usersGetCollections)
			users.GET("/:userID/collections/:slug", h.usersGetCollectionBySlug)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.authMiddleware, h.notificationsGet)
			notifications.GET("/unreadCount", h.authMiddleware, h.notificationsUnreadCount)
			notifications.PATCH("/readAll", h.authMiddleware, h.notificationsMarkAllRead)
			notifications.PATCH("/:notificationID/read", h.authMiddleware, h.notificationsMarkRead)
		}

		v1.GET("/ws", h.authMiddleware, h.wsConnect)
		v1.GET("/presence/online", h.presenceOnline)
	}

	return r
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.metrics.RecordHTTPRequest(c.Request.Context(), c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
}

// getViewer returns the viewer resolved by the auth middlewares, or the
// anonymous viewer when no valid token was presented.
func (h *Handler) getViewer(c *gin.Context) model.Viewer {
	value, ok := c.Get("viewer")
	if !ok {
		return model.AnonymousViewer()
	}

	viewer, ok := value.(model.Viewer)
	if !ok {
		return model.AnonymousViewer()
	}

	return viewer
}

// intQuery parses an integer query parameter; anything unparseable falls
// back to the default rather than failing the request.
func intQuery(c *gin.Context, name string, def int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}

	return value
}
