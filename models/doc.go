// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request and response bodies of the HTTP API.

# Records

Records travel as flat JSON objects keyed by sanitized column name:

	{"id": 1, "name": "Alice", "course": "Bio"}

Writes wrap the values in a fields object:

	POST /records      {"fields": {"name": "Alice"}}   → {"id": 1}
	PUT  /records/1    {"fields": {"course": "Bio"}}

List responses carry the column set so clients can order and label the
columns:

	{"records": [...], "columns": [{"name": "id", "label": "id", "type": "id"}, ...],
	 "count": 1, "total": 3}

count is the number of records returned; total is the number stored.

# Configuration

	GET  /config          → ConfigResponse
	POST /config/preview  {"columns": [...]}  → schema.Plan
	PUT  /config          SaveConfigRequest   → SaveConfigResponse

SaveConfigRequest embeds the persisted configuration fields (app_title,
record_name, tab_names, columns) plus confirm_drop.

# Errors

	{"error": "Not Found", "message": "Record 7 not found"}

A 409 for an unconfirmed column drop includes the plan so the caller can ask
the user to confirm.
*/
package models
