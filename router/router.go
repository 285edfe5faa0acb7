// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/adaptable-records/handlers"
	"github.com/danielhkuo/adaptable-records/middleware"
	"github.com/danielhkuo/adaptable-records/settings"
	"github.com/danielhkuo/adaptable-records/store"
)

func NewRouter(records *store.Store, svc *settings.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	recordHandler := handlers.NewRecordHandler(records)
	settingsHandler := handlers.NewSettingsHandler(svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Customization
	mux.HandleFunc("GET /config", middleware.WithLogging(settingsHandler.GetConfig))
	mux.HandleFunc("POST /config/preview", middleware.WithLogging(settingsHandler.PreviewColumns))
	mux.HandleFunc("PUT /config", middleware.WithLogging(settingsHandler.SaveConfig))

	// Records
	mux.HandleFunc("GET /records", middleware.WithLogging(recordHandler.ListRecords))
	mux.HandleFunc("POST /records", middleware.WithLogging(recordHandler.CreateRecord))
	mux.HandleFunc("GET /records/{id}", middleware.WithLogging(recordHandler.GetRecord))
	mux.HandleFunc("PUT /records/{id}", middleware.WithLogging(recordHandler.UpdateRecord))
	mux.HandleFunc("DELETE /records/{id}", middleware.WithLogging(recordHandler.DeleteRecord))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("adaptable-records API v1"))
	})

	return mux
}
