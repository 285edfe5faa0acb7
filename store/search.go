// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// matcher tests records for a case-insensitive substring in any column,
// including the decimal id. A Caser is stateful, so each List gets its own.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(filter string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(filter)}
}

func (m *matcher) match(r Record) bool {
	if strings.Contains(strconv.FormatInt(r.ID, 10), m.needle) {
		return true
	}
	for _, v := range r.Fields {
		if strings.Contains(m.fold.String(v), m.needle) {
			return true
		}
	}
	return false
}
