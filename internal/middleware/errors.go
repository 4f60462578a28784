package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/dealpulse/internal/domain/dto"
	"github.com/guttosm/dealpulse/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON ErrorResponse
// when the handler has not written a response itself.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	log := logger.With("http")
	log.Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), err))
}

// AbortWithError aborts the chain with status and a standardized ErrorResponse body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
