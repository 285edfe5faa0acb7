// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the records API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(recordStore, settingsService)

# Endpoints

Health:

	GET /health

Customization:

	GET  /config         - Current configuration and column set
	POST /config/preview - Plan a column change without applying it
	PUT  /config         - Save labels and columns (reconciles the table)

Records:

	GET    /records       - List records, ?q= filters case-insensitively
	POST   /records       - Create record
	GET    /records/{id}  - Get record
	PUT    /records/{id}  - Update record
	DELETE /records/{id}  - Delete record

Every route except /health and / is wrapped with middleware.WithLogging.
*/
package router
