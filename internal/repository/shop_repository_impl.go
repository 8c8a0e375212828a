package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shopsCollection = "shops"
	usersCollection = "users"
)

type MongoDBShopRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBShopRepository(db *mongo.Database) MongoDBShopRepository {
	return &MongoDBShopRepositoryImpl{db: db}
}

// populateShopUserStages resolves the owning user, keeping only username and email.
func populateShopUserStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "let", Value: bson.D{{Key: "userId", Value: "$user"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$userId"}}}}}}},
				{{Key: "$project", Value: bson.D{{Key: "username", Value: 1}, {Key: "email", Value: 1}}}},
			}},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func shopListPipeline(filter bson.M, opts FindOptions) mongo.Pipeline {
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

	return append(pipeline, populateShopUserStages()...)
}

func (r *MongoDBShopRepositoryImpl) GetShops(ctx context.Context, filter bson.M, opts FindOptions) (data []domain.PopulatedShop, err error) {
	cursor, err := r.db.Collection(shopsCollection).Aggregate(ctx, shopListPipeline(filter, opts))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetShops").Msg("")
		return
	}

	data = []domain.PopulatedShop{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetShops").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBShopRepositoryImpl) CountShops(ctx context.Context, filter bson.M) (count int64, err error) {
	count, err = r.db.Collection(shopsCollection).CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CountShops").Msg("")
	}

	return
}

func (r *MongoDBShopRepositoryImpl) GetShopByID(ctx context.Context, id primitive.ObjectID) (shop domain.PopulatedShop, err error) {
	shops, err := r.GetShops(ctx, bson.M{"_id": id}, FindOptions{Limit: 1})
	if err != nil {
		return
	}

	if len(shops) == 0 {
		return shop, errs.ErrShopNotFound
	}

	return shops[0], nil
}

func (r *MongoDBShopRepositoryImpl) GetShopByUser(ctx context.Context, userID primitive.ObjectID) (shop domain.Shop, err error) {
	err = r.db.Collection(shopsCollection).FindOne(ctx, bson.D{{Key: "user", Value: userID}}).Decode(&shop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shop, errs.ErrShopNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetShopByUser").Msg("")
		return shop, err
	}

	return shop, nil
}

func (r *MongoDBShopRepositoryImpl) UpdateShopByUser(ctx context.Context, userID primitive.ObjectID, set bson.M) (shop domain.Shop, err error) {
	return r.updateShopByUser(ctx, userID, bson.D{{Key: "$set", Value: set}}, "UpdateShopByUser")
}

// UpdateShopInfoByUser merges info into shopInfo, creating it when it is missing or null.
func (r *MongoDBShopRepositoryImpl) UpdateShopInfoByUser(ctx context.Context, userID primitive.ObjectID, info bson.D) (shop domain.Shop, err error) {
	return r.updateShopByUser(ctx, userID, shopInfoMergePipeline(info), "UpdateShopInfoByUser")
}

func (r *MongoDBShopRepositoryImpl) updateShopByUser(ctx context.Context, userID primitive.ObjectID, update interface{}, component string) (shop domain.Shop, err error) {
	filter := bson.D{{Key: "user", Value: userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = r.db.Collection(shopsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&shop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shop, errs.ErrShopNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("Failed to update shop")
		return shop, err
	}

	return shop, nil
}

// shopInfoMergePipeline wraps every value in $literal so user input is never
// read as a field path or operator.
func shopInfoMergePipeline(info bson.D) mongo.Pipeline {
	fields := make(bson.D, 0, len(info))
	for _, field := range info {
		fields = append(fields, bson.E{Key: field.Key, Value: bson.D{{Key: "$literal", Value: field.Value}}})
	}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "shopInfo", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$shopInfo", bson.D{}}}},
				fields,
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}

func (r *MongoDBShopRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(shopsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "activityStatus", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "EnsureIndexes").Msg("")
	}

	return err
}
