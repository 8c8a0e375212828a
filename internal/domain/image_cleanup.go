package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageCleanupTask tracks hosted images that still have to be removed after a product delete.
type ImageCleanupTask struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"product_id"`
	PublicIDs []string           `bson:"publicIds" json:"public_ids"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	LastError string             `bson:"lastError,omitempty" json:"last_error,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}
