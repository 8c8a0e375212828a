package dto

const (
	EventProductCreated       = "product_created"
	EventProductUpdated       = "product_updated"
	EventProductRated         = "product_rated"
	EventProductDeleted       = "product_deleted"
	EventProductImagesCleanup = "product_images_cleanup"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// ProductEvent is the payload of product_* events.
type ProductEvent struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	Slug     string  `json:"slug,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	UserID   string  `json:"user_id,omitempty"`
	Stars    int     `json:"stars,omitempty"`
}
