package repository

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindOptions pages and sorts a listing.
type FindOptions struct {
	Skip  int64
	Limit int64
	Sort  bson.D
}

type MongoDBProductRepository interface {
	GetProducts(ctx context.Context, filter bson.M, opts FindOptions) (data []domain.PopulatedProduct, err error)
	CountProducts(ctx context.Context, filter bson.M) (count int64, err error)
	GetProductIDsByRating(ctx context.Context, stars int) (ids []primitive.ObjectID, err error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (product domain.PopulatedProduct, err error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error)
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M) (product domain.Product, err error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error)
	UpsertRating(ctx context.Context, productID primitive.ObjectID, userID primitive.ObjectID, stars int) (err error)
	GetBrands(ctx context.Context) (brands []string, err error)
	HandleTrx(ctx context.Context, fn func(ctx mongo.SessionContext) error) error
	EnsureIndexes(ctx context.Context) error
}

type MongoDBSubcategoryRepository interface {
	GetSubcategoryByID(ctx context.Context, id primitive.ObjectID) (subcategory domain.Subcategory, err error)
}

type MongoDBShopRepository interface {
	GetShops(ctx context.Context, filter bson.M, opts FindOptions) (data []domain.PopulatedShop, err error)
	CountShops(ctx context.Context, filter bson.M) (count int64, err error)
	GetShopByID(ctx context.Context, id primitive.ObjectID) (shop domain.PopulatedShop, err error)
	GetShopByUser(ctx context.Context, userID primitive.ObjectID) (shop domain.Shop, err error)
	UpdateShopByUser(ctx context.Context, userID primitive.ObjectID, set bson.M) (shop domain.Shop, err error)
	UpdateShopInfoByUser(ctx context.Context, userID primitive.ObjectID, info bson.D) (shop domain.Shop, err error)
	EnsureIndexes(ctx context.Context) error
}

type MongoDBImageCleanupRepository interface {
	AddTask(ctx context.Context, task domain.ImageCleanupTask) (id primitive.ObjectID, err error)
	GetPendingTasks(ctx context.Context, maxAttempts int, updatedBefore time.Time, limit int64) (tasks []domain.ImageCleanupTask, err error)
	UpdateTask(ctx context.Context, task domain.ImageCleanupTask) (err error)
	DeleteTask(ctx context.Context, id primitive.ObjectID) (err error)
}
