// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/danielhkuo/adaptable-records/db"
)

// IDColumn is the synthetic primary key present in every column set.
const IDColumn = "id"

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Sanitize turns a raw column name into a safe identifier: every run of
// characters that are not letters, digits or "_" becomes "_" and the result
// is lowercased. Letters and digits of any script are kept.
func Sanitize(name string) string {
	return strings.ToLower(nonWord.ReplaceAllString(strings.TrimSpace(name), "_"))
}

// ColumnType is the storage type of a column.
type ColumnType string

const (
	TypeID   ColumnType = "id"
	TypeText ColumnType = "text"
)

// Column is one entry of a column set.
type Column struct {
	Name  string     `json:"name"`  // sanitized identifier
	Label string     `json:"label"` // name as entered by the user
	Type  ColumnType `json:"type"`
}

// Definition renders the column for CREATE TABLE.
func (c Column) Definition(d db.Dialect) string {
	if c.Type == TypeID {
		return d.QuoteIdent(c.Name) + " " + d.IDColumnDef()
	}
	return d.QuoteIdent(c.Name) + " TEXT"
}

// ColumnSet is the ordered shape of a record. The first element is always id.
type ColumnSet []Column

// NewColumnSet builds a column set from raw names. Blank names are skipped,
// id is moved to (or inserted at) the front and two names that sanitize to
// the same identifier are rejected.
func NewColumnSet(raw []string) (ColumnSet, error) {
	idCol := Column{Name: IDColumn, Label: IDColumn, Type: TypeID}
	fields := ColumnSet{}
	seen := map[string]string{}

	for _, r := range raw {
		label := strings.TrimSpace(r)
		if label == "" {
			continue
		}

		name := Sanitize(label)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q and %q both become %q", ErrColumnCollision, prev, label, name)
		}
		seen[name] = label

		if name == IDColumn {
			idCol.Label = label
			continue
		}
		fields = append(fields, Column{Name: name, Label: label, Type: TypeText})
	}

	return append(ColumnSet{idCol}, fields...), nil
}

// MustColumnSet is NewColumnSet for literals known to be valid.
func MustColumnSet(raw ...string) ColumnSet {
	cs, err := NewColumnSet(raw)
	if err != nil {
		panic(err)
	}
	return cs
}

// ColumnSet lets a fixed set act as its own column source.
func (cs ColumnSet) ColumnSet() ColumnSet {
	return cs
}

// Names returns the sanitized names in order.
func (cs ColumnSet) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Labels returns the raw names in order.
func (cs ColumnSet) Labels() []string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = c.Label
	}
	return labels
}

// Fields returns every column except id.
func (cs ColumnSet) Fields() ColumnSet {
	out := ColumnSet{}
	for _, c := range cs {
		if c.Type != TypeID {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a sanitized name is part of the set.
func (cs ColumnSet) Has(name string) bool {
	for _, c := range cs {
		if c.Name == name {
			return true
		}
	}
	return false
}

// SameNames reports whether both sets have the same sanitized names in the
// same order.
func (cs ColumnSet) SameNames(other ColumnSet) bool {
	if len(cs) != len(other) {
		return false
	}
	for i := range cs {
		if cs[i].Name != other[i].Name {
			return false
		}
	}
	return true
}
