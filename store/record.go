// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/danielhkuo/adaptable-records/schema"
)

// Record is one row of the table. Fields holds every non-id column; NULL
// values read back as "".
type Record struct {
	ID     int64
	Fields map[string]string
}

// Get returns a field value, or the decimal id for "id".
func (r Record) Get(name string) string {
	if name == schema.IDColumn {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Fields[name]
}

// MarshalJSON flattens the record into a single object keyed by column name.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[schema.IDColumn] = r.ID
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	r.Fields = make(map[string]string, len(raw))
	for k, v := range raw {
		if k == schema.IDColumn {
			num, ok := v.(json.Number)
			if !ok {
				return fmt.Errorf("record id must be a number, got %T", v)
			}
			id, err := strconv.ParseInt(num.String(), 10, 64)
			if err != nil {
				return fmt.Errorf("record id %s: %w", num, err)
			}
			r.ID = id
			continue
		}
		switch val := v.(type) {
		case string:
			r.Fields[k] = val
		case nil:
			r.Fields[k] = ""
		default:
			r.Fields[k] = fmt.Sprint(val)
		}
	}

	return nil
}
