package analysis

import (
	"fmt"
)

// ErrorKind categorizes a failed analysis call
type ErrorKind string

const (
	// KindNetwork indicates the request never got a response
	KindNetwork ErrorKind = "network"

	// KindTimeout indicates the call exceeded its deadline
	KindTimeout ErrorKind = "timeout"

	// KindServer indicates a non-2xx response
	KindServer ErrorKind = "server"

	// KindDecode indicates a 2xx response that could not be understood
	KindDecode ErrorKind = "decode"
)

// Fallback messages for server errors without a usable body
const (
	msgUnprocessableError = "could not process server error"
	msgServerStatus       = "server error: %d"
)

// RemoteCallError is returned by Client.Analyze for every failure
type RemoteCallError struct {
	Kind ErrorKind

	// StatusCode is set for server errors
	StatusCode int

	// Message is safe to show to the user
	Message string

	Cause error
}

// Error implements the error interface
func (e *RemoteCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *RemoteCallError) Unwrap() error {
	return e.Cause
}

// Is matches another *RemoteCallError of the same kind
func (e *RemoteCallError) Is(target error) bool {
	if t, ok := target.(*RemoteCallError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks
var (
	ErrNetwork = &RemoteCallError{Kind: KindNetwork}
	ErrTimeout = &RemoteCallError{Kind: KindTimeout}
	ErrServer  = &RemoteCallError{Kind: KindServer}
	ErrDecode  = &RemoteCallError{Kind: KindDecode}
)
