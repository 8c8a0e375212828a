package service

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
	"github.com/alimikegami/e-commerce/catalog-service/internal/repository"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductServiceImpl struct {
	productRepo     repository.MongoDBProductRepository
	subcategoryRepo repository.MongoDBSubcategoryRepository
	cleanupRepo     repository.MongoDBImageCleanupRepository
	cleanupQueue    ImageCleanupQueue
	publisher       EventPublisher
}

func CreateProductService(
	productRepo repository.MongoDBProductRepository,
	subcategoryRepo repository.MongoDBSubcategoryRepository,
	cleanupRepo repository.MongoDBImageCleanupRepository,
	cleanupQueue ImageCleanupQueue,
	publisher EventPublisher,
) ProductService {
	return &ProductServiceImpl{
		productRepo:     productRepo,
		subcategoryRepo: subcategoryRepo,
		cleanupRepo:     cleanupRepo,
		cleanupQueue:    cleanupQueue,
		publisher:       publisher,
	}
}

func parseObjectID(id string, errInvalid error) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errInvalid
	}
	return objectID, nil
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context, query filter.ProductQuery, categoryID string, subcategoryID string) (products []domain.PopulatedProduct, totalCount int64, err error) {
	params := query.Params

	if categoryID != "" {
		id, err := parseObjectID(categoryID, errs.ErrInvalidID)
		if err != nil {
			return nil, 0, err
		}
		params.Category = &id
	}

	// an unknown subcategory leaves the listing unconstrained instead of failing
	if subcategoryID != "" {
		if id, parseErr := primitive.ObjectIDFromHex(subcategoryID); parseErr == nil {
			subcategory, err := s.subcategoryRepo.GetSubcategoryByID(ctx, id)
			switch {
			case err == nil:
				params.Subcategory = &subcategory.ID
			case !errors.Is(err, errs.ErrNotFound):
				return nil, 0, err
			}
		}
	}

	var ratedIDs []primitive.ObjectID
	if params.Rating != nil {
		ratedIDs, err = s.productRepo.GetProductIDsByRating(ctx, *params.Rating)
		if err != nil {
			return nil, 0, err
		}
	}

	builder := filter.BuildProductFilter(params, ratedIDs)

	products, err = s.productRepo.GetProducts(ctx, builder, repository.FindOptions{
		Skip:  query.Skip(),
		Limit: query.Limit(),
		Sort:  query.Sort(),
	})
	if err != nil {
		return nil, 0, err
	}

	totalCount, err = s.productRepo.CountProducts(ctx, builder)
	if err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (product domain.PopulatedProduct, err error) {
	productID, err := parseObjectID(id, errs.ErrProductNotFound)
	if err != nil {
		return
	}

	return s.productRepo.GetProductByID(ctx, productID)
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (product domain.Product, err error) {
	categoryID, err := parseObjectID(data.Category, errs.ErrInvalidID)
	if err != nil {
		return
	}

	subcategories, err := toObjectIDs(data.Subcategories)
	if err != nil {
		return
	}

	now := time.Now().UTC()
	product = domain.Product{
		Title:         data.Title,
		Slug:          slug.Make(data.Title),
		Description:   data.Description,
		Quantity:      data.Quantity,
		Category:      categoryID,
		Subcategories: subcategories,
		Brand:         data.Brand,
		Shipping:      data.Shipping,
		Images:        toProductImages(data.Images),
		Ratings:       []domain.Rating{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if data.Price != nil {
		product.Price = *data.Price
	}

	product.ID, err = s.productRepo.AddProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.publishEvent(ctx, dto.EventProductCreated, productEvent(product))

	return product, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id string, data dto.ProductUpdateRequest) (product domain.Product, err error) {
	productID, err := parseObjectID(id, errs.ErrProductNotFound)
	if err != nil {
		return
	}

	set, err := productUpdateSet(data)
	if err != nil {
		return
	}

	product, err = s.productRepo.UpdateProduct(ctx, productID, set)
	if err != nil {
		return
	}

	s.publishEvent(ctx, dto.EventProductUpdated, productEvent(product))

	return product, nil
}

// productUpdateSet builds the $set document from the fields present in the request.
func productUpdateSet(data dto.ProductUpdateRequest) (bson.M, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if data.Title != nil {
		set["title"] = *data.Title
		set["slug"] = slug.Make(*data.Title)
	}
	if data.Description != nil {
		set["description"] = *data.Description
	}
	if data.Price != nil {
		set["price"] = *data.Price
	}
	if data.Quantity != nil {
		set["quantity"] = *data.Quantity
	}
	if data.Category != nil {
		categoryID, err := parseObjectID(*data.Category, errs.ErrInvalidID)
		if err != nil {
			return nil, err
		}
		set["category"] = categoryID
	}
	if data.Subcategories != nil {
		subcategories, err := toObjectIDs(data.Subcategories)
		if err != nil {
			return nil, err
		}
		set["subcategories"] = subcategories
	}
	if data.Brand != nil {
		set["brand"] = *data.Brand
	}
	if data.Shipping != nil {
		set["shipping"] = *data.Shipping
	}
	if data.Images != nil {
		set["images"] = toProductImages(data.Images)
	}

	return set, nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	productID, err := parseObjectID(id, errs.ErrProductNotFound)
	if err != nil {
		return
	}

	var task domain.ImageCleanupTask
	err = s.productRepo.HandleTrx(ctx, func(sessCtx mongo.SessionContext) error {
		task = domain.ImageCleanupTask{}

		product, err := s.productRepo.DeleteProduct(sessCtx, productID)
		if err != nil {
			return err
		}

		publicIDs := product.PublicIDs()
		if len(publicIDs) == 0 {
			return nil
		}

		now := time.Now().UTC()
		task = domain.ImageCleanupTask{
			ProductID: product.ID,
			PublicIDs: publicIDs,
			CreatedAt: now,
			UpdatedAt: now,
		}
		task.ID, err = s.cleanupRepo.AddTask(sessCtx, task)
		return err
	})
	if err != nil {
		return
	}

	if !task.ID.IsZero() {
		// the task is already stored, so a failed enqueue is picked up by the sweeper
		if err := s.cleanupQueue.Enqueue(ctx, task); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "DeleteProduct").Str("task_id", task.ID.Hex()).Msg("image cleanup deferred")
		}
	}

	s.publishEvent(ctx, dto.EventProductDeleted, dto.ProductEvent{ID: id})

	return nil
}

func (s *ProductServiceImpl) RateProduct(ctx context.Context, id string, userID string, stars int) (product domain.PopulatedProduct, err error) {
	productID, err := parseObjectID(id, errs.ErrProductNotFound)
	if err != nil {
		return
	}

	userObjectID, err := parseObjectID(userID, errs.ErrNotLoggedIn)
	if err != nil {
		return
	}

	if stars < 1 || stars > 5 {
		return product, errs.ErrClient
	}

	if err = s.productRepo.UpsertRating(ctx, productID, userObjectID, stars); err != nil {
		return
	}

	product, err = s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return
	}

	s.publishEvent(ctx, dto.EventProductRated, dto.ProductEvent{ID: id, UserID: userID, Stars: stars})

	return product, nil
}

func (s *ProductServiceImpl) GetSimilarProducts(ctx context.Context, id string, perPage int) (products []domain.PopulatedProduct, totalCount int64, err error) {
	productID, err := parseObjectID(id, errs.ErrProductNotFound)
	if err != nil {
		return
	}

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return
	}

	builder := filter.SimilarProductsFilter(product.ID, product.Category)

	products, err = s.productRepo.GetProducts(ctx, builder, repository.FindOptions{Limit: int64(perPage)})
	if err != nil {
		return nil, 0, err
	}

	totalCount, err = s.productRepo.CountProducts(ctx, builder)
	if err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

func (s *ProductServiceImpl) GetProductBrands(ctx context.Context) (brands []string, err error) {
	return s.productRepo.GetBrands(ctx)
}

// publishEvent never fails the request; downstream consumers tolerate gaps.
func (s *ProductServiceImpl) publishEvent(ctx context.Context, eventType string, event dto.ProductEvent) {
	if err := s.publisher.Publish(ctx, eventType, event.ID, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishEvent").Str("event_type", eventType).Msg("")
	}
}

func productEvent(product domain.Product) dto.ProductEvent {
	return dto.ProductEvent{
		ID:       product.ID.Hex(),
		Title:    product.Title,
		Slug:     product.Slug,
		Price:    product.Price,
		Category: product.Category.Hex(),
		Brand:    product.Brand,
	}
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := parseObjectID(id, errs.ErrInvalidID)
		if err != nil {
			return nil, err
		}
		objectIDs = append(objectIDs, objectID)
	}
	return objectIDs, nil
}

func toProductImages(images []dto.ImageRequest) []domain.ProductImage {
	result := make([]domain.ProductImage, 0, len(images))
	for _, image := range images {
		result = append(result, domain.ProductImage{URL: image.URL, PublicID: image.PublicID})
	}
	return result
}
