package models

import (
	"github.com/danielhkuo/adaptable-records/appconfig"
	"github.com/danielhkuo/adaptable-records/schema"
	"github.com/danielhkuo/adaptable-records/store"
)

// Request types

// field name -> value; every value is stored as text
type RecordFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

type PreviewColumnsRequest struct {
	Columns []string `json:"columns"`
}

type SaveConfigRequest struct {
	appconfig.AppConfig
	ConfirmDrop bool `json:"confirm_drop"`
}

// Response types

type CreateRecordResponse struct {
	ID int64 `json:"id"`
}

type ListRecordsResponse struct {
	Records []store.Record  `json:"records"`
	Columns []schema.Column `json:"columns"`
	Count   int             `json:"count"`
	Total   int64           `json:"total"`
}

type ConfigResponse struct {
	appconfig.AppConfig
	Table      string          `json:"table"`
	SchemaMode string          `json:"schema_mode"`
	Fields     []schema.Column `json:"fields"`
}

type SaveConfigResponse struct {
	Config ConfigResponse `json:"config"`
	Plan   schema.Plan    `json:"plan"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Plan    *schema.Plan `json:"plan,omitempty"`
}
