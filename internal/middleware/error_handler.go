package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every error returned by a handler as an errs-style body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var writeErr error

	var validationErrors errs.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErrors):
		writeErr = response.WriteErrorResponse(c, errs.ErrValidation, validationErrors)
	case errors.As(err, &httpErr):
		writeErr = response.WriteErrorStatus(c, httpErr.Code, httpErrorMessage(httpErr), nil)
	default:
		if !errs.IsClientError(err) {
			log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "ErrorHandler").Str("path", c.Path()).Msg("")
		}
		writeErr = response.WriteErrorResponse(c, err, nil)
	}

	if writeErr != nil {
		log.Ctx(c.Request().Context()).Error().Err(writeErr).Str("component", "ErrorHandler").Msg("")
	}
}

func httpErrorMessage(httpErr *echo.HTTPError) string {
	if message, ok := httpErr.Message.(string); ok {
		return message
	}
	if httpErr.Message != nil {
		return fmt.Sprint(httpErr.Message)
	}
	return http.StatusText(httpErr.Code)
}
