package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ShopActivityStatusActive   = "active"
	ShopActivityStatusInactive = "inactive"
	ShopActivityStatusPending  = "pending"
)

type ShopInfo struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
}

type Shop struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	ShopInfo       ShopInfo           `bson:"shopInfo" json:"shopInfo"`
	ActivityStatus string             `bson:"activityStatus" json:"activityStatus"`
	PaymentStatus  string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PopulatedShop struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	User           *User              `bson:"user,omitempty" json:"user"`
	ShopInfo       ShopInfo           `bson:"shopInfo" json:"shopInfo"`
	ActivityStatus string             `bson:"activityStatus" json:"activityStatus"`
	PaymentStatus  string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
