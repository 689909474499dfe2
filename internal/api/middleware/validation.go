package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rapidscribe/internal/api/errors"
)

// Validator is implemented by request DTOs that carry domain rules beyond
// what binding tags can express.
type Validator interface {
	Validate() error
}

// ValidateRequest binds the JSON body into req and runs both tag and domain
// validation.
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("invalid request", fieldErrors(err))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateQuery binds query parameters into req and runs both tag and domain
// validation.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return errors.NewValidationError("invalid query parameters", fieldErrors(err))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// fieldErrors flattens binding failures into a field -> reason map.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = "malformed request body"
		return fields
	}

	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())

		switch fieldError.Tag() {
		case "required":
			fields[field] = "is required"
		case "min":
			fields[field] = "is too small"
		case "max":
			fields[field] = "is too large"
		case "oneof":
			fields[field] = "must be one of the allowed values"
		case "url":
			fields[field] = "must be a valid URL"
		default:
			fields[field] = "is invalid"
		}
	}

	return fields
}
