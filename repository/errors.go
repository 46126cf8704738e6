package repository

import "errors"

// ErrNotFound is returned when an operation references a row that does not
// exist (e.g. deleting a scan that was already removed elsewhere).
var ErrNotFound = errors.New("record not found")
