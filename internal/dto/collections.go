package dto

type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type EditCollectionRequest struct {
	ID          int64   `json:"id" binding:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
