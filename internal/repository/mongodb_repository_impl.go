package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection      = "products"
	categoriesCollection    = "categories"
	subcategoriesCollection = "subcategories"
)

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBRepository(db *mongo.Database) MongoDBProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

// populateProductStages replaces category and subcategory ids with their documents.
func populateProductStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: categoriesCollection},
			{Key: "localField", Value: "category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$category"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subcategoriesCollection},
			{Key: "localField", Value: "subcategories"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "subcategories"},
		}}},
	}
}

func productListPipeline(filter bson.M, opts FindOptions) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	if len(opts.Sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: opts.Sort}})
	}
	if opts.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: opts.Skip}})
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Limit}})
	}

	return append(pipeline, populateProductStages()...)
}

// ratingUpsertPipeline replaces the stars of userID's rating or appends a new one,
// as a single document update.
func ratingUpsertPipeline(userID primitive.ObjectID, stars int) mongo.Pipeline {
	existing := bson.D{{Key: "$ifNull", Value: bson.A{"$ratings", bson.A{}}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "ratings", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{userID, bson.D{{Key: "$ifNull", Value: bson.A{"$ratings.postedBy", bson.A{}}}}}}}},
				{Key: "then", Value: bson.D{{Key: "$map", Value: bson.D{
					{Key: "input", Value: existing},
					{Key: "as", Value: "rating"},
					{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.D{
						{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{"$$rating.postedBy", userID}}}},
						{Key: "then", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{"$$rating", bson.D{{Key: "stars", Value: stars}}}}}},
						{Key: "else", Value: "$$rating"},
					}}}},
				}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
					existing,
					bson.A{bson.D{{Key: "stars", Value: stars}, {Key: "postedBy", Value: userID}}},
				}}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context, filter bson.M, opts FindOptions) (data []domain.PopulatedProduct, err error) {
	cursor, err := r.db.Collection(productsCollection).Aggregate(ctx, productListPipeline(filter, opts))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	data = []domain.PopulatedProduct{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) CountProducts(ctx context.Context, filter bson.M) (count int64, err error) {
	count, err = r.db.Collection(productsCollection).CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CountProducts").Msg("")
	}

	return
}

func (r *MongoDBProductRepositoryImpl) GetProductIDsByRating(ctx context.Context, stars int) (ids []primitive.ObjectID, err error) {
	cursor, err := r.db.Collection(productsCollection).Aggregate(ctx, filter.RatingPipeline(stars))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductIDsByRating").Msg("")
		return
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductIDsByRating").Msg("")
		return
	}

	ids = make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	return ids, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id primitive.ObjectID) (product domain.PopulatedProduct, err error) {
	products, err := r.GetProducts(ctx, bson.M{"_id": id}, FindOptions{Limit: 1})
	if err != nil {
		return
	}

	if len(products) == 0 {
		return product, errs.ErrProductNotFound
	}

	return products[0], nil
}

func (r *MongoDBProductRepositoryImpl) FindProductByID(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	err = r.db.Collection(productsCollection).FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrProductNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "FindProductByID").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(productsCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M) (product domain.Product, err error) {
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: set}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = r.db.Collection(productsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrProductNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	err = r.db.Collection(productsCollection).FindOneAndDelete(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrProductNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) UpsertRating(ctx context.Context, productID primitive.ObjectID, userID primitive.ObjectID, stars int) (err error) {
	filter := bson.D{{Key: "_id", Value: productID}}

	result, err := r.db.Collection(productsCollection).UpdateOne(ctx, filter, ratingUpsertPipeline(userID, stars))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpsertRating").Msg("Failed to rate product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

func (r *MongoDBProductRepositoryImpl) GetBrands(ctx context.Context) (brands []string, err error) {
	values, err := r.db.Collection(productsCollection).Distinct(ctx, "brand", bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBrands").Msg("")
		return
	}

	brands = make([]string, 0, len(values))
	for _, value := range values {
		if brand, ok := value.(string); ok {
			brands = append(brands, brand)
		}
	}

	return brands, nil
}

func (r *MongoDBProductRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}

	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := fn(sessCtx)
		if err != nil && !errs.IsClientError(err) {
			log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		}
		return nil, err
	})

	return err
}

func (r *MongoDBProductRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "brand", Value: "text"},
			},
			Options: options.Index().SetName("product_text"),
		},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "EnsureIndexes").Msg("")
	}

	return err
}
