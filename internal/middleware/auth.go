package middleware

import (
	"net/http"

	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// IsLoggedIn validates the bearer token and stores it under "user" for utils.ExtractTokenUser.
func IsLoggedIn(secret string) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(secret),
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			return response.WriteErrorStatus(c, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error(), nil)
		},
	})
}
