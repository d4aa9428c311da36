package main

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	timeoutStr  = "timeout"
	networkStr  = "network"
	protocolStr = "protocol"
	decodeStr   = "decode"
	unknownStr  = "unknown_error"
)

// NetworkFailure means the request never produced a response.
type NetworkFailure struct {
	err error
}

func (f *NetworkFailure) Error() string { return f.err.Error() }
func (f *NetworkFailure) Unwrap() error { return f.err }
func (f *NetworkFailure) Cause() error  { return f.err }

// ProtocolFailure is a non-200 answer. Message is what the server told us.
type ProtocolFailure struct {
	Status  int
	Message string
}

// newProtocolFailure prefers a string "error" field from the body and falls
// back to the status and the "message" field. In development mode the server
// sends an object under "error", which is why only strings are taken.
func newProtocolFailure(status int, body []byte) *ProtocolFailure {
	if errField := gjson.GetBytes(body, "error"); errField.Type == gjson.String {
		return &ProtocolFailure{Status: status, Message: errField.String()}
	}

	message := gjson.GetBytes(body, "message").String()

	return &ProtocolFailure{
		Status:  status,
		Message: fmt.Sprintf("Server returned %d\n\t%s", status, message),
	}
}

func (f *ProtocolFailure) Error() string { return f.Message }

// DecodeFailure means the body could not be understood.
type DecodeFailure struct {
	err error
}

func (f *DecodeFailure) Error() string { return f.err.Error() }
func (f *DecodeFailure) Unwrap() error { return f.err }
func (f *DecodeFailure) Cause() error  { return f.err }

func classifyFailure(err error) string {
	var (
		netFailure      *NetworkFailure
		protocolFailure *ProtocolFailure
		decodeFailure   *DecodeFailure
	)

	switch {
	case errors.As(err, &netFailure):
		return classifyNetError(netFailure)
	case errors.As(err, &protocolFailure):
		return protocolStr
	case errors.As(err, &decodeFailure):
		return decodeStr
	default:
		return unknownStr
	}
}

func classifyNetError(err error) string {
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		if cause, ok := cause.(net.Error); ok && cause.Timeout() {
			return timeoutStr
		}
	}

	return networkStr
}
