package repository

import "errors"

// ErrNotConfigured is returned when no database pool is available.
var ErrNotConfigured = errors.New("postgres pool not configured")
