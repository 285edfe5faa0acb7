// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/adaptable-records/db"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidField        = errors.New("invalid field")
	ErrStorage             = errors.New("storage failure")
)

// classify converts an engine error into ErrConstraintViolation or ErrStorage.
func classify(op string, err error) error {
	if db.IsConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
