package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newShopFixture() (*fakeShopRepo, ShopService, domain.Shop) {
	shop := domain.Shop{
		ID:             primitive.NewObjectID(),
		User:           primitive.NewObjectID(),
		ShopInfo:       domain.ShopInfo{Name: "Corner Store", Country: "ID", City: "Bandung"},
		ActivityStatus: domain.ShopActivityStatusActive,
	}
	repo := &fakeShopRepo{shops: map[primitive.ObjectID]domain.Shop{shop.ID: shop}}
	return repo, CreateShopService(repo), shop
}

func TestGetShops(t *testing.T) {
	repo, svc, _ := newShopFixture()

	query, err := filter.ParseShopQuery(url.Values{"page": {"1"}, "perPage": {"10"}, "order": {"1"}})
	require.NoError(t, err)

	_, total, err := svc.GetShops(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	assert.Equal(t, bson.M{"activityStatus": domain.ShopActivityStatusActive}, repo.lastFilter)
	assert.Equal(t, int64(10), repo.lastOpts.Skip)
	assert.Equal(t, int64(10), repo.lastOpts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, repo.lastOpts.Sort)
}

func TestGetShopByID(t *testing.T) {
	_, svc, shop := newShopFixture()

	found, err := svc.GetShopByID(context.Background(), shop.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", found.ShopInfo.Name)

	_, err = svc.GetShopByID(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.ErrShopNotFound)

	_, err = svc.GetShopByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrShopNotFound)
}

func TestGetSellerShop(t *testing.T) {
	_, svc, shop := newShopFixture()

	found, err := svc.GetSellerShop(context.Background(), shop.User.Hex())
	require.NoError(t, err)
	assert.Equal(t, shop.ID, found.ID)

	_, err = svc.GetSellerShop(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrNotLoggedIn)
}

func TestUpdateShopInfoMergesSuppliedFields(t *testing.T) {
	repo, svc, shop := newShopFixture()
	city := "Jakarta"

	_, err := svc.UpdateShopInfo(context.Background(), shop.User.Hex(), dto.ShopInfoRequest{City: &city})
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "city", Value: "Jakarta"}}, repo.lastInfo)
	assert.Nil(t, repo.lastSet)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo, svc, shop := newShopFixture()

	_, err := svc.UpdatePaymentStatus(context.Background(), shop.User.Hex(), dto.PaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", repo.lastSet["paymentStatus"])

	_, err = svc.UpdatePaymentStatus(context.Background(), primitive.NewObjectID().Hex(), dto.PaymentStatusRequest{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, errs.ErrShopNotFound)
}
