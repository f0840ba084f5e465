package db

import "errors"

// Sentinel errors for storage operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrUnavailable   = errors.New("db: unavailable")
	ErrQuery         = errors.New("db: query rejected")
)

// Op constants name engine and cache operations for error context.
const (
	OpCreateIndex = "indices.create"
	OpDropIndex   = "indices.delete"
	OpIndexExists = "indices.exists"
	OpRefresh     = "indices.refresh"
	OpSearch      = "search"
	OpBulk        = "bulk"
	OpPing        = "ping"
	OpGet         = "GET"
	OpSet         = "SET"
	OpIncrBy      = "INCRBY"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
