// ABOUTME: Error normalization at the API client boundary
// ABOUTME: Maps network, HTTP and validation failures to one tagged error with a user-facing message
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/harperreed/adda/forms"
)

// Kind classifies an Error by origin.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindCanceled     Kind = "canceled"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindClient       Kind = "client"
	KindServer       Kind = "server"
	KindValidation   Kind = "validation"
	KindDecode       Kind = "decode"
	KindUnknown      Kind = "unknown"
)

// Canned messages used when the server body carries none.
const (
	MsgNetwork      = "Network error. Please check your internet connection."
	MsgTimeout      = "Request timed out. Please try again."
	MsgCanceled     = "Request was cancelled."
	MsgBadRequest   = "Invalid request. Please check the format of your input."
	MsgUnauthorized = "Your session has expired. Please log in again."
	MsgForbidden    = "You do not have permission to do that."
	MsgNotFound     = "The requested item was not found or has expired."
	MsgRateLimited  = "Too many requests. Please wait a moment and try again."
	MsgServer       = "Server error. Please try again later."
	MsgDecode       = "Unexpected response from server."
	MsgUnknown      = "Something went wrong. Please try again."
)

// Error is the only error type the client returns. Message is safe to show
// to users as-is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the log-friendly form including kind, status and cause.
func (e *Error) Detail() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil && e.Err.Error() != e.Message {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// IsKind reports whether err normalizes to kind.
func IsKind(err error, kind Kind) bool {
	e := Normalize(err)
	return e != nil && e.Kind == kind
}

// Normalize converts any error into *Error. nil stays nil.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var formErr *forms.Error
	if errors.As(err, &formErr) {
		return &Error{Kind: KindValidation, Message: formErr.Message, Err: err}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCanceled, Message: MsgCanceled, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &Error{Kind: KindTimeout, Message: MsgTimeout, Err: err}
		}
		return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}

	return &Error{Kind: KindUnknown, Message: MsgUnknown, Err: err}
}

// StatusError builds the Error for a non-2xx response. For 4xx the server's
// message wins over the canned one; 5xx bodies are never shown.
func StatusError(status int, body []byte) *Error {
	serverMsg := bodyMessage(body)
	e := &Error{Status: status}
	if serverMsg != "" {
		e.Err = errors.New(serverMsg)
	}

	switch {
	case status == http.StatusBadRequest:
		e.Kind, e.Message = KindBadRequest, MsgBadRequest
	case status == http.StatusUnauthorized:
		e.Kind, e.Message = KindUnauthorized, MsgUnauthorized
	case status == http.StatusForbidden:
		e.Kind, e.Message = KindForbidden, MsgForbidden
	case status == http.StatusNotFound:
		e.Kind, e.Message = KindNotFound, MsgNotFound
	case status == http.StatusTooManyRequests:
		e.Kind, e.Message = KindRateLimited, MsgRateLimited
	case status >= 500:
		e.Kind, e.Message = KindServer, MsgServer
		return e
	default:
		e.Kind, e.Message = KindClient, fmt.Sprintf("Request failed (status %d).", status)
	}

	if serverMsg != "" {
		e.Message = serverMsg
	}
	return e
}

// bodyMessage extracts "message" or "error" from a JSON error body.
func bodyMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}

	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func validationError(err error) *Error {
	return Normalize(err)
}
