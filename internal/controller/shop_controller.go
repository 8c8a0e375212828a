package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/alimikegami/e-commerce/catalog-service/internal/filter"
	"github.com/alimikegami/e-commerce/catalog-service/internal/service"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/response"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/utils"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/validation"
	"github.com/labstack/echo/v4"
)

type ShopController struct {
	service service.ShopService
}

func CreateShopController(e *echo.Group, service service.ShopService, isLoggedIn echo.MiddlewareFunc) {
	c := ShopController{
		service: service,
	}
	e.GET("/shops", c.GetShops)
	e.GET("/shops/me", c.GetSellerShop, isLoggedIn)
	e.PATCH("/shops/me", c.UpdateShopInfo, isLoggedIn)
	e.PATCH("/shops/me/payment-status", c.UpdatePaymentStatus, isLoggedIn)
	e.GET("/shops/:shopId", c.GetShop)
}

func (c *ShopController) GetShops(e echo.Context) error {
	query, err := filter.ParseShopQuery(e.QueryParams())
	if err != nil {
		return err
	}

	shops, totalCount, err := c.service.GetShops(e.Request().Context(), query)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{
		"shops":      shops,
		"totalCount": totalCount,
	})
}

func (c *ShopController) GetShop(e echo.Context) error {
	shop, err := c.service.GetShopByID(e.Request().Context(), e.Param("shopId"))
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"shop": shop})
}

func (c *ShopController) GetSellerShop(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)

	shop, err := c.service.GetSellerShop(e.Request().Context(), userID)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"shop": shop})
}

func (c *ShopController) UpdateShopInfo(e echo.Context) error {
	payload := dto.ShopInfoRequest{}
	if err := validation.BindAndValidate(e, &payload); err != nil {
		return err
	}

	userID, _ := utils.ExtractTokenUser(e)

	shop, err := c.service.UpdateShopInfo(e.Request().Context(), userID, payload)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"shop": shop})
}

func (c *ShopController) UpdatePaymentStatus(e echo.Context) error {
	payload := dto.PaymentStatusRequest{}
	if err := validation.BindAndValidate(e, &payload); err != nil {
		return err
	}

	userID, _ := utils.ExtractTokenUser(e)

	shop, err := c.service.UpdatePaymentStatus(e.Request().Context(), userID, payload)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"shop": shop})
}
