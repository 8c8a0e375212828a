package response

import (
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// WriteSuccessResponse writes data merged with "success": true.
func WriteSuccessResponse(c echo.Context, statusCode int, data echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range data {
		body[k] = v
	}

	return c.JSON(statusCode, body)
}

func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	message := err.Error()
	if !errs.IsClientError(err) {
		message = errs.ErrInternalServer.Error()
		if statusCode != errs.ErrStatusInternalServer {
			message = err.Error()
		}
	}

	return WriteErrorStatus(c, statusCode, message, errors)
}

func WriteErrorStatus(c echo.Context, statusCode int, message string, errors interface{}) error {
	resp := ErrorResponse{}
	resp.Success = false
	resp.Status = statusCode
	resp.Message = message
	resp.Errors = errors

	return c.JSON(statusCode, resp)
}
