package dto

// SaveDraftRequest is the autosave payload: ID zero creates a draft, a
// non-zero ID overwrites it (snapshotting the previous content). Drafts may
// be empty, so nothing here is required.
type SaveDraftRequest struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title" binding:"max=200"`
	Content     string   `json:"content"`
	ContentType string   `json:"content_type"`
	Tags        []string `json:"tags"`
}
