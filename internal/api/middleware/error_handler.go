package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rapidscribe/internal/api/errors"
)

// ErrorHandler recovers from panics and renders them as internal errors in
// the standard envelope.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
		case error:
			log.Error("panic in handler",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			apiErr = errors.NewInternalError("internal server error")
		default:
			log.Error("panic in handler",
				zap.String("request_id", requestID),
				zap.Any("recovered", recovered))
			apiErr = errors.NewInternalError("internal server error")
		}

		apiErr.RequestID = requestID
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), errors.Envelope{Error: apiErr})
	})
}

// HandleError classifies err and writes the error envelope. Handlers call it
// on every error path.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := errors.FromError(err)
	apiErr.RequestID = c.GetString("request_id")

	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), errors.Envelope{Error: apiErr})
}
