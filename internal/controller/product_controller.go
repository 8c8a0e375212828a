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

type ProductController struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc) {
	c := ProductController{
		service: service,
	}
	e.GET("/products", c.GetProducts)
	e.GET("/products/brands", c.GetProductBrands)
	e.GET("/products/categories/:categoryId", c.GetProducts)
	e.GET("/products/subcategories/:subcategoryId", c.GetProducts)
	e.GET("/products/:productId", c.GetProduct)
	e.GET("/products/:productId/similar", c.GetSimilarProducts)
	e.POST("/products", c.AddProduct, isLoggedIn)
	e.PATCH("/products/:productId", c.UpdateProduct, isLoggedIn)
	e.DELETE("/products/:productId", c.DeleteProduct, isLoggedIn)
	e.POST("/products/:productId/ratings", c.RateProduct, isLoggedIn)
}

// GetProducts serves the plain listing and the category and subcategory listings.
func (c *ProductController) GetProducts(e echo.Context) error {
	query, err := filter.ParseProductQuery(e.QueryParams())
	if err != nil {
		return err
	}

	products, totalCount, err := c.service.GetProducts(e.Request().Context(), query, e.Param("categoryId"), e.Param("subcategoryId"))
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{
		"products":   products,
		"totalCount": totalCount,
	})
}

func (c *ProductController) GetProduct(e echo.Context) error {
	product, err := c.service.GetProductByID(e.Request().Context(), e.Param("productId"))
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"product": product})
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	if err := validation.BindAndValidate(e, &payload); err != nil {
		return err
	}

	product, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, echo.Map{"product": product})
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	payload := dto.ProductUpdateRequest{}
	if err := validation.BindAndValidate(e, &payload); err != nil {
		return err
	}

	product, err := c.service.UpdateProduct(e.Request().Context(), e.Param("productId"), payload)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"product": product})
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	if err := c.service.DeleteProduct(e.Request().Context(), e.Param("productId")); err != nil {
		return err
	}

	return e.NoContent(http.StatusNoContent)
}

func (c *ProductController) RateProduct(e echo.Context) error {
	payload := dto.RatingRequest{}
	if err := validation.BindAndValidate(e, &payload); err != nil {
		return err
	}

	userID, _ := utils.ExtractTokenUser(e)

	product, err := c.service.RateProduct(e.Request().Context(), e.Param("productId"), userID, payload.Rating)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"product": product})
}

func (c *ProductController) GetSimilarProducts(e echo.Context) error {
	perPage, err := filter.ParseSimilarPerPage(e.QueryParams())
	if err != nil {
		return err
	}

	products, totalCount, err := c.service.GetSimilarProducts(e.Request().Context(), e.Param("productId"), perPage)
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{
		"products":   products,
		"totalCount": totalCount,
	})
}

func (c *ProductController) GetProductBrands(e echo.Context) error {
	brands, err := c.service.GetProductBrands(e.Request().Context())
	if err != nil {
		return err
	}

	return response.WriteSuccessResponse(e, http.StatusOK, echo.Map{"brands": brands})
}
