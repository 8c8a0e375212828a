package service

import (
	"context"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
)

type ProductService interface {
	GetProducts(ctx context.Context, query filter.ProductQuery, categoryID string, subcategoryID string) (products []domain.PopulatedProduct, totalCount int64, err error)
	GetProductByID(ctx context.Context, id string) (product domain.PopulatedProduct, err error)
	AddProduct(ctx context.Context, data dto.ProductRequest) (product domain.Product, err error)
	UpdateProduct(ctx context.Context, id string, data dto.ProductUpdateRequest) (product domain.Product, err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	RateProduct(ctx context.Context, id string, userID string, stars int) (product domain.PopulatedProduct, err error)
	GetSimilarProducts(ctx context.Context, id string, perPage int) (products []domain.PopulatedProduct, totalCount int64, err error)
	GetProductBrands(ctx context.Context) (brands []string, err error)
}

type ShopService interface {
	GetShops(ctx context.Context, query filter.ShopQuery) (shops []domain.PopulatedShop, totalCount int64, err error)
	GetShopByID(ctx context.Context, id string) (shop domain.PopulatedShop, err error)
	GetSellerShop(ctx context.Context, userID string) (shop domain.Shop, err error)
	UpdateShopInfo(ctx context.Context, userID string, data dto.ShopInfoRequest) (shop domain.Shop, err error)
	UpdatePaymentStatus(ctx context.Context, userID string, data dto.PaymentStatusRequest) (shop domain.Shop, err error)
}

type ImageCleanupService interface {
	ImageCleanupQueue
	ConsumeEvent(ctx context.Context)
	ProcessTask(ctx context.Context, task domain.ImageCleanupTask) (err error)
	RetryPendingTasks()
}

// ImageCleanupQueue hands a committed cleanup task to the asynchronous worker.
type ImageCleanupQueue interface {
	Enqueue(ctx context.Context, task domain.ImageCleanupTask) (err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, data interface{}) (err error)
}
