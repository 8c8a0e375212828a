package repository

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const imageCleanupTasksCollection = "image_cleanup_tasks"

type MongoDBImageCleanupRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBImageCleanupRepository(db *mongo.Database) MongoDBImageCleanupRepository {
	return &MongoDBImageCleanupRepositoryImpl{db: db}
}

func (r *MongoDBImageCleanupRepositoryImpl) AddTask(ctx context.Context, task domain.ImageCleanupTask) (id primitive.ObjectID, err error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}

	_, err = r.db.Collection(imageCleanupTasksCollection).InsertOne(ctx, task)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddTask").Msg("")
		return
	}

	return task.ID, nil
}

func (r *MongoDBImageCleanupRepositoryImpl) GetPendingTasks(ctx context.Context, maxAttempts int, updatedBefore time.Time, limit int64) (tasks []domain.ImageCleanupTask, err error) {
	filter := bson.D{
		{Key: "attempts", Value: bson.D{{Key: "$lt", Value: maxAttempts}}},
		{Key: "updatedAt", Value: bson.D{{Key: "$lte", Value: updatedBefore}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}}).SetLimit(limit)

	cursor, err := r.db.Collection(imageCleanupTasksCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPendingTasks").Msg("")
		return
	}

	if err = cursor.All(ctx, &tasks); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPendingTasks").Msg("")
		return
	}

	return tasks, nil
}

func (r *MongoDBImageCleanupRepositoryImpl) UpdateTask(ctx context.Context, task domain.ImageCleanupTask) (err error) {
	filter := bson.D{{Key: "_id", Value: task.ID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "publicIds", Value: task.PublicIDs},
		{Key: "attempts", Value: task.Attempts},
		{Key: "lastError", Value: task.LastError},
		{Key: "updatedAt", Value: task.UpdatedAt},
	}}}

	result, err := r.db.Collection(imageCleanupTasksCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateTask").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *MongoDBImageCleanupRepositoryImpl) DeleteTask(ctx context.Context, id primitive.ObjectID) (err error) {
	_, err = r.db.Collection(imageCleanupTasksCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteTask").Msg("")
	}

	return
}
