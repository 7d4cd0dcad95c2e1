package cache

import "errors"

var (
	ErrCacheMiss      = errors.New("cache miss")
	ErrInvalidKey     = errors.New("invalid cache key")
	ErrInvalidValue   = errors.New("invalid cache value")
	ErrConnectionLost = errors.New("cache connection lost")
)
