package controllers

import (
	"errors"
	"net/http"

	"github.com/geo-diary/api-go/services"
)

type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// statusFromError maps engine error kinds to HTTP statuses. Anything
// unrecognized is a server error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidOperation),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrCapacityExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
