// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/adaptable-records/middleware"
	"github.com/danielhkuo/adaptable-records/models"
	"github.com/danielhkuo/adaptable-records/settings"
)

type SettingsHandler struct {
	svc *settings.Service
}

func NewSettingsHandler(svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GetConfig handles GET /config
func (h *SettingsHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.current())
}

// PreviewColumns handles POST /config/preview
// Reports what saving the given columns would do without touching the table.
func (h *SettingsHandler) PreviewColumns(w http.ResponseWriter, r *http.Request) {
	var req models.PreviewColumnsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	plan, err := h.svc.Preview(r.Context(), req.Columns)
	if err != nil {
		writeError(w, "preview columns", err, "Failed to inspect the table")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, plan)
}

// SaveConfig handles PUT /config
func (h *SettingsHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var req models.SaveConfigRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	plan, err := h.svc.Commit(r.Context(), req.AppConfig, req.ConfirmDrop)
	if err != nil {
		writePlanError(w, err, plan)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SaveConfigResponse{
		Config: h.current(),
		Plan:   plan,
	})
}

func (h *SettingsHandler) current() models.ConfigResponse {
	return models.ConfigResponse{
		AppConfig:  h.svc.Config().Get(),
		Table:      h.svc.Table(),
		SchemaMode: string(h.svc.Mode()),
		Fields:     h.svc.Config().ColumnSet(),
	}
}
