package rpc

import (
	"fmt"
)

// maxErrorBody caps how much of a failed response body is kept on a TransportError.
const maxErrorBody = 512

// TransportError is returned when the request never produced a usable HTTP
// response: a network failure, an expired context (Status 0) or a non-2xx
// status.
type TransportError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("rpc transport: %s returned HTTP %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("rpc transport: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a response arrived but could not be
// interpreted: a malformed envelope, a missing result, or a result that does
// not have the expected shape.
type DecodeError struct {
	Method string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "rpc decode"
	if e.Method != "" {
		msg += " " + e.Method
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RemoteError is a JSON-RPC error object returned by the node.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
