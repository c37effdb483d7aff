package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/harperreed/adda/forms"
	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"bad request canned", 400, ``, KindBadRequest, MsgBadRequest},
		{"bad request from body", 400, `{"message":"Invalid OTP"}`, KindBadRequest, "Invalid OTP"},
		{"unauthorized", 401, `{"success":false}`, KindUnauthorized, MsgUnauthorized},
		{"forbidden", 403, ``, KindForbidden, MsgForbidden},
		{"not found", 404, `<html>nope</html>`, KindNotFound, MsgNotFound},
		{"rate limited", 429, ``, KindRateLimited, MsgRateLimited},
		{"conflict uses body", 409, `{"error":"Email already registered"}`, KindClient, "Email already registered"},
		{"nested error object", 422, `{"error":{"message":"Budget too low"}}`, KindClient, "Budget too low"},
		{"other client", 418, ``, KindClient, "Request failed (status 418)."},
		{"server ignores body", 500, `{"message":"mongo exploded"}`, KindServer, MsgServer},
		{"bad gateway", 502, ``, KindServer, MsgServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.message, err.Message)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	apiErr := &Error{Kind: KindNotFound, Message: MsgNotFound}
	assert.Same(t, apiErr, Normalize(fmt.Errorf("wrapped: %w", apiErr)))

	formErr := forms.Validate(forms.PhoneForm{Phone: "12345"})
	v := Normalize(formErr)
	assert.Equal(t, KindValidation, v.Kind)
	assert.Equal(t, forms.MsgPhone, v.Message)

	assert.Equal(t, KindCanceled, Normalize(context.Canceled).Kind)
	assert.Equal(t, KindTimeout, Normalize(context.DeadlineExceeded).Kind)

	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.Equal(t, KindNetwork, Normalize(opErr).Kind)

	unknown := Normalize(errors.New("boom"))
	assert.Equal(t, KindUnknown, unknown.Kind)
	assert.Equal(t, MsgUnknown, unknown.Message)
	assert.ErrorContains(t, unknown.Unwrap(), "boom")
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(StatusError(404, nil), KindNotFound))
	assert.False(t, IsKind(StatusError(404, nil), KindServer))
	assert.False(t, IsKind(nil, KindUnknown))
}

func TestDetail(t *testing.T) {
	err := StatusError(500, []byte(`{"message":"mongo exploded"}`))
	assert.Equal(t, "server (500): "+MsgServer+": mongo exploded", err.Detail())
}
