package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title         string               `bson:"title" json:"title"`
	Slug          string               `bson:"slug" json:"slug"`
	Description   string               `bson:"description" json:"description"`
	Price         float64              `bson:"price" json:"price"`
	Quantity      uint64               `bson:"quantity" json:"quantity"`
	Category      primitive.ObjectID   `bson:"category" json:"category"`
	Subcategories []primitive.ObjectID `bson:"subcategories" json:"subcategories"`
	Brand         string               `bson:"brand" json:"brand"`
	Shipping      string               `bson:"shipping" json:"shipping"`
	Images        []ProductImage       `bson:"images" json:"images"`
	Ratings       []Rating             `bson:"ratings" json:"ratings"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProductImage is an asset stored with the image host; PublicID is the host-side key.
type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

type Rating struct {
	Stars    int                `bson:"stars" json:"stars"`
	PostedBy primitive.ObjectID `bson:"postedBy" json:"postedBy"`
}

// PopulatedProduct is a product with its category references resolved.
type PopulatedProduct struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	Quantity      uint64             `bson:"quantity" json:"quantity"`
	Category      *Category          `bson:"category,omitempty" json:"category"`
	Subcategories []Subcategory      `bson:"subcategories" json:"subcategories"`
	Brand         string             `bson:"brand" json:"brand"`
	Shipping      string             `bson:"shipping" json:"shipping"`
	Images        []ProductImage     `bson:"images" json:"images"`
	Ratings       []Rating           `bson:"ratings" json:"ratings"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicIDs lists the image host keys of the product's images.
func (p Product) PublicIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, image := range p.Images {
		if image.PublicID != "" {
			ids = append(ids, image.PublicID)
		}
	}
	return ids
}
