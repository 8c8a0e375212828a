package service

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/domain"
	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
	"github.com/alimikegami/e-commerce/catalog-service/internal/repository"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
)

type ShopServiceImpl struct {
	shopRepo repository.MongoDBShopRepository
}

func CreateShopService(shopRepo repository.MongoDBShopRepository) ShopService {
	return &ShopServiceImpl{shopRepo: shopRepo}
}

func (s *ShopServiceImpl) GetShops(ctx context.Context, query filter.ShopQuery) (shops []domain.PopulatedShop, totalCount int64, err error) {
	builder := query.Filter()

	shops, err = s.shopRepo.GetShops(ctx, builder, repository.FindOptions{
		Skip:  query.Skip(),
		Limit: query.Limit(),
		Sort:  query.Sort(),
	})
	if err != nil {
		return nil, 0, err
	}

	totalCount, err = s.shopRepo.CountShops(ctx, builder)
	if err != nil {
		return nil, 0, err
	}

	return shops, totalCount, nil
}

func (s *ShopServiceImpl) GetShopByID(ctx context.Context, id string) (shop domain.PopulatedShop, err error) {
	shopID, err := parseObjectID(id, errs.ErrShopNotFound)
	if err != nil {
		return
	}

	return s.shopRepo.GetShopByID(ctx, shopID)
}

func (s *ShopServiceImpl) GetSellerShop(ctx context.Context, userID string) (shop domain.Shop, err error) {
	userObjectID, err := parseObjectID(userID, errs.ErrNotLoggedIn)
	if err != nil {
		return
	}

	return s.shopRepo.GetShopByUser(ctx, userObjectID)
}

// UpdateShopInfo merges only the supplied fields into shopInfo.
func (s *ShopServiceImpl) UpdateShopInfo(ctx context.Context, userID string, data dto.ShopInfoRequest) (shop domain.Shop, err error) {
	userObjectID, err := parseObjectID(userID, errs.ErrNotLoggedIn)
	if err != nil {
		return
	}

	info := bson.D{}
	if data.ShopName != nil {
		info = append(info, bson.E{Key: "name", Value: *data.ShopName})
	}
	if data.Country != nil {
		info = append(info, bson.E{Key: "country", Value: *data.Country})
	}
	if data.City != nil {
		info = append(info, bson.E{Key: "city", Value: *data.City})
	}

	return s.shopRepo.UpdateShopInfoByUser(ctx, userObjectID, info)
}

func (s *ShopServiceImpl) UpdatePaymentStatus(ctx context.Context, userID string, data dto.PaymentStatusRequest) (shop domain.Shop, err error) {
	userObjectID, err := parseObjectID(userID, errs.ErrNotLoggedIn)
	if err != nil {
		return
	}

	return s.shopRepo.UpdateShopByUser(ctx, userObjectID, bson.M{
		"paymentStatus": data.PaymentStatus,
		"updatedAt":     time.Now().UTC(),
	})
}
