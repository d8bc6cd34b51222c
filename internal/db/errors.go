package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound     = errors.New("db: key not found")
	ErrUnknownDriver   = errors.New("db: unknown driver")
	ErrInvalidArgument = errors.New("db: invalid argument")
)

// Op names used for error context.
const (
	OpPing    = "PING"
	OpPut     = "PUT"
	OpGetDoc  = "GETDOC"
	OpDelDoc  = "DELDOC"
	OpList    = "LIST"
	OpGet     = "GET"
	OpSet     = "SET"
	OpIncrBy  = "INCRBY"
	OpExpire  = "EXPIRE"
	OpMigrate = "MIGRATE"
	OpOpen    = "OPEN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
