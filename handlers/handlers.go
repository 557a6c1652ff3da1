// Package handlers exposes the rescue backend over HTTP with gin.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"pawrescue/apperr"
	"pawrescue/service"
)

// Handlers binds the HTTP surface to the service layer.
type Handlers struct {
	svc *service.Service
}

// New creates the handler set.
func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeError maps service errors onto HTTP statuses. Validation
// problems carry their message; everything else gets a generic body so
// storage details stay out of responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperr.ErrUploadTransient):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
	case errors.Is(err, apperr.ErrTextAnalysisUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis unavailable"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses the named numeric path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// HealthHandler reports liveness.
func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
