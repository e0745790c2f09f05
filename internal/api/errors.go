package api

import (
	"errors"
	"fmt"
)

// Op names the remote call that failed.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// TransportError is the only failure the client reports: a non-2xx status,
// a network error, or a success body that could not be decoded.
// Status is zero when no response arrived.
type TransportError struct {
	Op     Op
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s todos: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s todos: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err came from the remote client.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
