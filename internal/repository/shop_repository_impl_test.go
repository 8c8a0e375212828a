package repository

import (
	"context"
	"testing"

	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoDBShopRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get shop by user not found", func(mt *mtest.T) {
		repo := CreateNewMongoDBShopRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.shops", mtest.FirstBatch))

		_, err := repo.GetShopByUser(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, errs.ErrShopNotFound)
	})

	mt.Run("get shop by id populates user", func(mt *mtest.T) {
		repo := CreateNewMongoDBShopRepository(mt.DB)
		shopID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.shops", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: shopID},
			{Key: "shopInfo", Value: bson.D{{Key: "name", Value: "Corner"}}},
			{Key: "activityStatus", Value: "active"},
			{Key: "user", Value: bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "username", Value: "jane"},
				{Key: "email", Value: "jane@example.com"},
			}},
		}))

		shop, err := repo.GetShopByID(context.Background(), shopID)
		require.NoError(mt, err)
		assert.Equal(mt, "Corner", shop.ShopInfo.Name)
		require.NotNil(mt, shop.User)
		assert.Equal(mt, "jane", shop.User.Username)
	})

	mt.Run("update shop info sends a merge pipeline", func(mt *mtest.T) {
		repo := CreateNewMongoDBShopRepository(mt.DB)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: userID},
			{Key: "shopInfo", Value: bson.D{{Key: "city", Value: "Jakarta"}}},
		}}))

		shop, err := repo.UpdateShopInfoByUser(context.Background(), userID, bson.D{{Key: "city", Value: "Jakarta"}})
		require.NoError(mt, err)
		assert.Equal(mt, "Jakarta", shop.ShopInfo.City)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		assert.Equal(mt, userID, started.Command.Lookup("query", "user").ObjectID())

		merge := started.Command.Lookup("update", "0", "$set", "shopInfo", "$mergeObjects")
		assert.Equal(mt, "$shopInfo", merge.Document().Lookup("0", "$ifNull", "0").StringValue())
		assert.Equal(mt, "Jakarta", merge.Document().Lookup("1", "city", "$literal").StringValue())
	})

	mt.Run("update shop info on missing shop", func(mt *mtest.T) {
		repo := CreateNewMongoDBShopRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateShopInfoByUser(context.Background(), primitive.NewObjectID(), bson.D{{Key: "name", Value: "Corner"}})
		assert.ErrorIs(mt, err, errs.ErrShopNotFound)
	})
}

func TestShopInfoMergePipeline(t *testing.T) {
	pipeline := shopInfoMergePipeline(bson.D{
		{Key: "name", Value: "$where"},
		{Key: "city", Value: "Jakarta"},
	})
	require.Len(t, pipeline, 1)

	raw, err := bson.Marshal(pipeline[0])
	require.NoError(t, err)
	stage := bson.Raw(raw)

	assert.Equal(t, "$$NOW", stage.Lookup("$set", "updatedAt").StringValue())

	merge, err := stage.Lookup("$set", "shopInfo", "$mergeObjects").Array().Values()
	require.NoError(t, err)
	require.Len(t, merge, 2)

	fallback := merge[0].Document().Lookup("$ifNull").Array()
	assert.Equal(t, "$shopInfo", fallback.Index(0).Value().StringValue())
	empty, err := fallback.Index(1).Value().Document().Elements()
	require.NoError(t, err)
	assert.Empty(t, empty)

	supplied := merge[1].Document()
	assert.Equal(t, "$where", supplied.Lookup("name", "$literal").StringValue())
	assert.Equal(t, "Jakarta", supplied.Lookup("city", "$literal").StringValue())
	_, err = supplied.LookupErr("country")
	assert.Error(t, err)
}

func TestShopListPipeline(t *testing.T) {
	pipeline := shopListPipeline(bson.M{"activityStatus": "active"}, FindOptions{
		Skip:  5,
		Limit: 5,
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
	})

	require.Len(t, pipeline, 6)
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(5)}}, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(5)}}, pipeline[3])
}
