// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/adaptable-records/middleware"
	"github.com/danielhkuo/adaptable-records/models"
	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/settings"
	"github.com/danielhkuo/adaptable-records/store"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConstraintViolation),
		errors.Is(err, schema.ErrDropNotConfirmed),
		errors.Is(err, settings.ErrFixedSchema):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidField),
		errors.Is(err, schema.ErrColumnCollision):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err to the client. Server-side failures are logged and
// answered with fallback so their details stay out of the response.
func writeError(w http.ResponseWriter, op string, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
		middleware.ErrorResponse(w, status, fallback)
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// writePlanError is writeError for configuration saves; a refused drop
// carries the plan so the client can ask for confirmation.
func writePlanError(w http.ResponseWriter, err error, plan schema.Plan) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("save configuration failed", "error", err)
		middleware.ErrorResponse(w, status, "Failed to save customizations")
		return
	}

	resp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	}
	if errors.Is(err, schema.ErrDropNotConfirmed) {
		resp.Plan = &plan
	}
	middleware.JSONResponse(w, status, resp)
}
