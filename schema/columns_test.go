// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "name"},
		{"Name", "name"},
		{"Phone Number", "phone_number"},
		{"  course  ", "course"},
		{"e-mail address", "e_mail_address"},
		{"a -- b", "a_b"},
		{"x\"; DROP TABLE records; --", "x_drop_table_records_"},
		{"ID", "id"},
		{"Café", "café"},
		{"名前", "名前"},
		{"Straße Nr.", "straße_nr_"},
		{"año 2024", "año_2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewColumnSet(t *testing.T) {
	tests := []struct {
		name       string
		raw        []string
		wantNames  []string
		wantLabels []string
	}{
		{
			name:       "id inserted first",
			raw:        []string{"name", "course"},
			wantNames:  []string{"id", "name", "course"},
			wantLabels: []string{"id", "name", "course"},
		},
		{
			name:       "id moved to front",
			raw:        []string{"name", "ID", "Mobile No"},
			wantNames:  []string{"id", "name", "mobile_no"},
			wantLabels: []string{"ID", "name", "Mobile No"},
		},
		{
			name:       "blank names skipped",
			raw:        []string{"id", " ", "", "name"},
			wantNames:  []string{"id", "name"},
			wantLabels: []string{"id", "name"},
		},
		{
			name:       "non-ascii names kept apart",
			raw:        []string{"id", "名前", "住所", "Café"},
			wantNames:  []string{"id", "名前", "住所", "café"},
			wantLabels: []string{"id", "名前", "住所", "Café"},
		},
		{
			name:       "empty input",
			raw:        nil,
			wantNames:  []string{"id"},
			wantLabels: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewColumnSet(tt.raw)
			if err != nil {
				t.Fatalf("NewColumnSet failed: %v", err)
			}
			if diff := cmp.Diff(tt.wantNames, cs.Names()); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLabels, cs.Labels()); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if cs[0].Type != TypeID {
				t.Errorf("first column should be the id key, got %+v", cs[0])
			}
			for _, c := range cs.Fields() {
				if c.Type != TypeText {
					t.Errorf("column %s should be text, got %s", c.Name, c.Type)
				}
			}
		})
	}
}

func TestNewColumnSet_Collision(t *testing.T) {
	cases := [][]string{
		{"id", "First Name", "first-name"},
		{"name", "Name"},
		{"course", "course"},
		{"Café", "café"},
	}

	for _, raw := range cases {
		_, err := NewColumnSet(raw)
		if !errors.Is(err, ErrColumnCollision) {
			t.Errorf("NewColumnSet(%q) error = %v, want ErrColumnCollision", raw, err)
		}
	}
}

func TestColumnSet_SameNames(t *testing.T) {
	a := MustColumnSet("id", "name", "course")
	b := MustColumnSet("ID", "Name", "Course")
	c := MustColumnSet("id", "course", "name")

	if !a.SameNames(b) {
		t.Error("sets with equal sanitized names should match")
	}
	if a.SameNames(c) {
		t.Error("order must matter")
	}
	if !a.Has("course") || a.Has("mobile") {
		t.Error("Has returned wrong result")
	}
}
