// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/adaptable-records/middleware"
	"github.com/danielhkuo/adaptable-records/models"
	"github.com/danielhkuo/adaptable-records/store"
)

type RecordHandler struct {
	records *store.Store
}

func NewRecordHandler(records *store.Store) *RecordHandler {
	return &RecordHandler{records: records}
}

// ListRecords handles GET /records?q=
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	records, err := h.records.List(r.Context(), query)
	if err != nil {
		writeError(w, "list records", err, "Failed to load records")
		return
	}

	total := int64(len(records))
	if query != "" {
		total, err = h.records.Count(r.Context())
		if err != nil {
			writeError(w, "count records", err, "Failed to load records")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListRecordsResponse{
		Records: records,
		Columns: h.records.Columns(),
		Count:   len(records),
		Total:   total,
	})
}

// CreateRecord handles POST /records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req models.RecordFieldsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.records.Create(r.Context(), req.Fields)
	if err != nil {
		writeError(w, "create record", err, "Failed to create record")
		return
	}

	slog.Info("record created", "id", id)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRecordResponse{ID: id})
}

// GetRecord handles GET /records/{id}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Read(r.Context(), id)
	if err != nil {
		h.fail(w, "read record", id, err, "Failed to load record")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// UpdateRecord handles PUT /records/{id}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	var req models.RecordFieldsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.records.Update(r.Context(), id, req.Fields); err != nil {
		h.fail(w, "update record", id, err, "Failed to save record")
		return
	}

	slog.Info("record updated", "id", id)

	rec, err := h.records.Read(r.Context(), id)
	if err != nil {
		h.fail(w, "read record", id, err, "Failed to load record")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /records/{id}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.records.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete record", id, err, "Failed to delete record")
		return
	}

	slog.Info("record deleted", "id", id)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Record %d deleted", id),
	})
}

// recordID parses the {id} path value, writing a 400 when it is not a number
func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid record id %q", raw))
		return 0, false
	}
	return id, true
}

// fail is writeError with the record named in 404 messages
func (h *RecordHandler) fail(w http.ResponseWriter, op string, id int64, err error, fallback string) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Record %d not found", id))
		return
	}
	writeError(w, op, err, fallback)
}
