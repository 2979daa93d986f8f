package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/internal/domain/dto"
	"github.com/guttosm/dartpulse/internal/logger"
)

// ErrorHandler logs the errors attached with c.Error (usually through
// AbortWithError) together with the request id and final status: error level
// for 5xx, warn otherwise.
//
// When the handler attached an error but wrote no response, the last error is
// rendered: a dto.ErrorResponse in the chain as-is, anything else as a generic
// 500. An error status already set on the writer is kept.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last().Err
	status := c.Writer.Status()
	if !c.Writer.Written() && status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	log := logger.Named("http")
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	rid, _ := c.Get(RequestIDKey)
	ev.Err(last).
		Str("request_id", toString(rid)).
		Str("route", c.FullPath()).
		Int("status", status).
		Int("errors", len(c.Errors)).
		Msg("request failed")

	if c.Writer.Written() {
		return
	}
	var resp dto.ErrorResponse
	if !errors.As(last, &resp) {
		resp = dto.NewErrorResponse("Internal server error", last)
	}
	c.JSON(status, resp)
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with status.
// A non-nil err is attached to the context for ErrorHandler to log.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
