package database

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrConnectionLost = errors.New("database connection lost")
)
