package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product-gateway/internal/middleware"
	"product-gateway/internal/repository"
)

const (
	msgNotFound    = "Product not found"
	msgDeleted     = "Product deleted successfully"
	msgInvalidBody = "request body must be a JSON object"
	msgTooLarge    = "request entity too large"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// storeError maps a store failure onto 404 or 500.
func (h *ProductHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

func (h *ProductHandler) notFound(c *gin.Context) {
	h.logger.Warn("product not found", requestFields(c)...)
	c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
}

// invalidBody rejects an undecodable body with 400, or 413 past the size
// limit. The decoder error is only logged.
func (h *ProductHandler) invalidBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.Warn("request body too large", append(requestFields(c), zap.Int64("limit", tooLarge.Limit))...)
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgTooLarge})
		return
	}

	h.logger.Warn("malformed request body", append(requestFields(c), zap.Error(err))...)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
}

// serverError reports err to the caller verbatim.
func (h *ProductHandler) serverError(c *gin.Context, err error) {
	h.logger.Error("store operation failed", append(requestFields(c), zap.Error(err))...)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func requestFields(c *gin.Context) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
}
