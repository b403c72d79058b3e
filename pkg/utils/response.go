package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorDetail is the error envelope used by every endpoint.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// ErrorResponse sends an error with a descriptive detail message.
func ErrorResponse(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorDetail{Detail: detail})
}

// ValidationErrorResponse translates validator errors into a 400 with a
// readable detail message.
func ValidationErrorResponse(c *gin.Context, err error) {
	detail := "Invalid request"

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		detail = validationErrorMessage(validationErrors[0])
	} else if err != nil {
		detail = err.Error()
	}

	c.JSON(http.StatusBadRequest, ErrorDetail{Detail: detail})
}

func validationErrorMessage(fieldError validator.FieldError) string {
	field := fieldError.Field()

	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fieldError.Param()
	case "max":
		return field + " must be at most " + fieldError.Param()
	case "country_code":
		return field + " must be a two-letter uppercase country code"
	default:
		return field + " is invalid"
	}
}
