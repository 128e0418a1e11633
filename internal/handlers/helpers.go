package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"friends-service/internal/apperror"
	"friends-service/internal/middleware"
)

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(middleware.RequestIDKey); ok {
		if requestID, ok := val.(string); ok && requestID != "" {
			return requestID
		}
	}
	if header := c.GetHeader("X-Request-ID"); header != "" {
		return header
	}
	return ksuid.New().String()
}

func userIDFromContext(c *gin.Context) *int64 {
	if userIDVal, ok := c.Get("userID"); ok {
		if userID, ok := userIDVal.(int64); ok {
			return &userID
		}
	}

	if header := c.GetHeader("X-User-ID"); header != "" {
		if parsed, err := strconv.ParseInt(header, 10, 64); err == nil {
			return &parsed
		}
	}

	return nil
}

// respondError maps core error kinds onto HTTP statuses. Unclassified
// errors surface as an opaque 500 with the fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	status := apperror.HTTPStatus(err)
	message := fallback
	if apperror.KindOf(err) != "" {
		message = err.Error()
	}
	c.JSON(status, gin.H{"error": message})
}
