package dto

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=200"`
	Content     string   `json:"content" binding:"required"`
	ContentType string   `json:"content_type"`
	Tags        []string `json:"tags"`
	ImageURLs   []string `json:"image_urls"`
	IsPublished bool     `json:"is_published"`
	Visibility  string   `json:"visibility"`
}

type EditPostRequest struct {
	ID          int64     `json:"id" binding:"required"`
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	ContentType *string   `json:"content_type"`
	Tags        *[]string `json:"tags"`
	ImageURLs   *[]string `json:"image_urls"`
	IsPublished *bool     `json:"is_published"`
	Visibility  *string   `json:"visibility"`
}
