package api

import (
	"errors"
	"fmt"
)

// TransportError reports an infrastructure failure: the network request
// could not complete, the server answered with a non-2xx status, or the
// body could not be decoded. Transport errors never represent a
// credential rejection and must not consume a lockout attempt.
type TransportError struct {
	// Op names the endpoint the client was calling.
	Op string
	// Err is the underlying failure.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("carelink api: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
