package redisrepo

import "fmt"

const (
	POST_KEY           = "post:%d"              // <postID>
	USER_CACHE_KEY     = "user-cache:%s"        // <userID>
	TRENDING_TAGS_KEY  = "trending-tags:%d"     // <limit>
	TRENDING_POSTS_KEY = "trending-posts:%d"    // <limit>
	PUBLIC_FEED_KEY    = "public-feed:%d:%d:%s" // <limit>:<offset>:<tag>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}

func TrendingTagsKey(limit int) string {
	return fmt.Sprintf(TRENDING_TAGS_KEY, limit)
}

func TrendingPostsKey(limit int) string {
	return fmt.Sprintf(TRENDING_POSTS_KEY, limit)
}

func PublicFeedKey(limit int, offset int, tag string) string {
	return fmt.Sprintf(PUBLIC_FEED_KEY, limit, offset, tag)
}
