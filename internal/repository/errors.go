package repository

import "errors"

// ErrNotFound is returned when a report request does not exist or has no
// artifact left to clear.
var ErrNotFound = errors.New("repository: not found")
