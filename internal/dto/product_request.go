package dto

type ImageRequest struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"required"`
}

type ProductRequest struct {
	Title         string         `json:"title" validate:"required,max=200"`
	Description   string         `json:"description" validate:"max=2000"`
	Price         *float64       `json:"price" validate:"required,gte=0"`
	Quantity      uint64         `json:"quantity"`
	Category      string         `json:"category" validate:"required,mongodb"`
	Subcategories []string       `json:"subcategories" validate:"omitempty,dive,mongodb"`
	Brand         string         `json:"brand" validate:"max=100"`
	Shipping      string         `json:"shipping" validate:"omitempty,oneof=Yes No"`
	Images        []ImageRequest `json:"images" validate:"omitempty,dive"`
}

// ProductUpdateRequest only touches the fields present in the body.
type ProductUpdateRequest struct {
	Title         *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string        `json:"description" validate:"omitempty,max=2000"`
	Price         *float64       `json:"price" validate:"omitempty,gte=0"`
	Quantity      *uint64        `json:"quantity"`
	Category      *string        `json:"category" validate:"omitempty,mongodb"`
	Subcategories []string       `json:"subcategories" validate:"omitempty,dive,mongodb"`
	Brand         *string        `json:"brand" validate:"omitempty,max=100"`
	Shipping      *string        `json:"shipping" validate:"omitempty,oneof=Yes No"`
	Images        []ImageRequest `json:"images" validate:"omitempty,dive"`
}

type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}
