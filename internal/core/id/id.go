// Package id provides helpers for the BIGSERIAL surrogate keys used by every entity.
package id

import (
	"strconv"
	"strings"

	"inventrack/internal/core/apperror"
)

// ID is a generated surrogate key. Zero means "not assigned yet".
type ID = int64

// Parse converts a path or query value to ID.
// Returns a validation error for anything that is not a positive integer.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return 0, apperror.NewValidation("invalid id").WithDetail("value", s)
	}
	return v, nil
}
