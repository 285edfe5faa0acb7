// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaUpdateFailed = errors.New("schema update failed")
	ErrColumnCollision    = errors.New("column names collide after sanitization")
	ErrDropNotConfirmed   = errors.New("removing columns discards their data and must be confirmed")
	ErrTableMissing       = errors.New("table does not exist")
)

// UpdateError describes a failed reconciliation. It matches
// ErrSchemaUpdateFailed and unwraps to the underlying cause.
type UpdateError struct {
	Table string
	Step  string
	Err   error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("schema update of %s failed at %s: %v", e.Table, e.Step, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

func (e *UpdateError) Is(target error) bool {
	return target == ErrSchemaUpdateFailed
}
