package repository

import (
	"context"
	"errors"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoDBSubcategoryRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBSubcategoryRepository(db *mongo.Database) MongoDBSubcategoryRepository {
	return &MongoDBSubcategoryRepositoryImpl{db: db}
}

func (r *MongoDBSubcategoryRepositoryImpl) GetSubcategoryByID(ctx context.Context, id primitive.ObjectID) (subcategory domain.Subcategory, err error) {
	err = r.db.Collection(subcategoriesCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&subcategory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return subcategory, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetSubcategoryByID").Msg("")
		return subcategory, err
	}

	return subcategory, nil
}
