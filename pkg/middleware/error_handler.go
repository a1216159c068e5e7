package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/pkg/errors"
)

// APIErrorResponse is the standard JSON error envelope
type APIErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path,omitempty"`
}

// ErrorHandler converts errors attached to the Gin context into the
// standard error envelope. Handlers call c.Error(err) and abort; this
// middleware translates whatever landed there.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := errors.FromError(err)

		requestID, _ := c.Get(ContextKeyRequestID)
		reqID, _ := requestID.(string)

		logError(logger, appErr, c, reqID)

		if c.Writer.Written() {
			return
		}

		c.JSON(appErr.HTTPStatus, APIErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: reqID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.Request.URL.Path,
		})
	}
}

func logError(logger *slog.Logger, appErr *errors.AppError, c *gin.Context, requestID string) {
	attrs := []any{
		"code", appErr.Code,
		"status", appErr.HTTPStatus,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"requestId", requestID,
	}
	if appErr.Err != nil {
		attrs = append(attrs, "cause", appErr.Err.Error())
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(appErr.Message, attrs...)
	} else {
		logger.Warn(appErr.Message, attrs...)
	}
}

// ErrorResponder provides helper methods for handlers that respond
// with errors directly rather than via the context error list.
type ErrorResponder struct {
	logger *slog.Logger
}

// NewErrorResponder creates an ErrorResponder
func NewErrorResponder(logger *slog.Logger) *ErrorResponder {
	return &ErrorResponder{logger: logger}
}

// RespondWithError writes an error response, mapping AppError codes to
// HTTP statuses.
func (r *ErrorResponder) RespondWithError(c *gin.Context, err error) {
	appErr := errors.FromError(err)

	requestID, _ := c.Get(ContextKeyRequestID)
	reqID, _ := requestID.(string)

	logError(r.logger, appErr, c, reqID)

	c.AbortWithStatusJSON(appErr.HTTPStatus, APIErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: reqID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
	})
}
