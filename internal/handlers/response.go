package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-service/internal/models"
)

// Response es el sobre común de todas las respuestas JSON.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	c.JSON(http.StatusOK, Response{Success: true, Count: &count, Data: items})
}

// respondError traduce los errores del store a códigos HTTP.
func respondError(c *gin.Context, err error) {
	var (
		validationErr  *models.ValidationError
		notFoundErr    *models.NotFoundError
		unavailableErr *models.StorageUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, Response{Message: "invalid request", Error: validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, Response{Message: "not found", Error: notFoundErr.Error()})
	case errors.As(err, &unavailableErr):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("storage unavailable")
		c.JSON(http.StatusServiceUnavailable, Response{Message: "storage unavailable", Error: "storage unavailable"})
	case errors.Is(err, context.Canceled):
		// el cliente cerró la conexión
		c.Status(499)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, Response{Message: "internal server error", Error: "internal server error"})
	}
}
