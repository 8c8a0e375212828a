package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusNoPermission   = http.StatusForbidden
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrBadGateway           = http.StatusBadGateway
)

var (
	ErrInternalServer    = errors.New("Internal server error")
	ErrClient            = errors.New("Bad request")
	ErrNotLoggedIn       = errors.New("Unauthorized access")
	ErrNotFound          = errors.New("Resource not found")
	ErrProductNotFound   = errors.New("Product not found")
	ErrShopNotFound      = errors.New("Shop not found")
	ErrInvalidID         = errors.New("Invalid identifier")
	ErrInvalidQueryParam = errors.New("Invalid query parameter")
	ErrValidation        = errors.New("Validation failed")
	ErrConflict          = errors.New("Conflicting record found")
	ErrImageProvider     = errors.New("Image provider unavailable")
)

var errorMap = map[error]int{
	ErrInternalServer:    ErrStatusInternalServer,
	ErrClient:            ErrStatusClient,
	ErrNotLoggedIn:       ErrStatusNotLoggedIn,
	ErrNotFound:          ErrStatusNotFound,
	ErrProductNotFound:   ErrStatusNotFound,
	ErrShopNotFound:      ErrStatusNotFound,
	ErrInvalidID:         ErrStatusClient,
	ErrInvalidQueryParam: ErrStatusClient,
	ErrValidation:        ErrStatusClient,
	ErrConflict:          ErrStatusConflict,
	ErrImageProvider:     ErrBadGateway,
}

// GetErrorStatusCode resolves wrapped errors too, so fmt.Errorf("%w: ...") keeps its status.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for target, errStatusCode := range errorMap {
		if errors.Is(err, target) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// IsClientError reports whether err maps to a status below 500.
func IsClientError(err error) bool {
	return GetErrorStatusCode(err) < http.StatusInternalServerError
}

type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// ValidationErrors carries per-field failures and unwraps to ErrValidation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return ErrValidation.Error()
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}
