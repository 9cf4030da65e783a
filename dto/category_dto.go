package dto

// CategoryDTO is the body of both POST and PUT /categories.
// On update, a nil Image keeps the stored image.
type CategoryDTO struct {
	Name        BilingualDTO          `json:"name" binding:"required"`
	Description *OptionalBilingualDTO `json:"description"`
	Image       *ImageDTO             `json:"image"`
	Version     *int64                `json:"version" binding:"omitempty,min=1"`
}
