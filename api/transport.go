// ABOUTME: Interceptor chain wrapped around the client's HTTP transport
// ABOUTME: Stamps request ids, attaches the bearer token, tears the session down on 401 and logs
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/adda/session"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderDeviceID  = "X-Device-ID"
)

// transport builds request-id -> auth -> expiry -> logging -> base.
func (c *Client) transport() http.RoundTripper {
	var rt http.RoundTripper = &loggingTransport{next: c.base, logger: c.logger}
	if c.session != nil {
		rt = &expiryTransport{next: rt, session: c.session}
		rt = &authTransport{next: rt, session: c.session, logger: c.logger}
	}
	return &requestIDTransport{next: rt, session: c.session, userAgent: c.userAgent, logger: c.logger}
}

type requestIDTransport struct {
	next      http.RoundTripper
	session   *session.Manager
	userAgent string
	logger    *log.Logger
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.session != nil && req.Header.Get(HeaderDeviceID) == "" {
		id, err := t.session.DeviceID(req.Context())
		if err != nil {
			t.logger.Debug("no device id", "err", err)
		} else {
			req.Header.Set(HeaderDeviceID, id)
		}
	}
	return t.next.RoundTrip(req)
}

// authTransport attaches the stored token unless the caller already set
// Authorization.
type authTransport struct {
	next    http.RoundTripper
	session *session.Manager
	logger  *log.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		ctx := session.WithGeneration(req.Context(), t.session.Generation())
		return t.next.RoundTrip(req.Clone(ctx))
	}

	tok, gen, err := t.session.RequestToken(req.Context())
	req = req.Clone(session.WithGeneration(req.Context(), gen))
	switch {
	case errors.Is(err, session.ErrNoToken):
	case err != nil:
		t.logger.Warn("failed to read session token, sending unauthenticated", "err", err)
	default:
		tok.SetAuthHeader(req)
	}
	return t.next.RoundTrip(req)
}

// expiryTransport ends the session when the server rejects its token. A 401
// for a request sent under an earlier login leaves the current one alone.
type expiryTransport struct {
	next    http.RoundTripper
	session *session.Manager
}

func (t *expiryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		gen, ok := session.GenerationFrom(req.Context())
		if !ok {
			gen = t.session.Generation()
		}
		reason := fmt.Sprintf("%s %s returned 401", req.Method, req.URL.Path)
		t.session.Expire(context.WithoutCancel(req.Context()), gen, reason)
	}
	return resp, nil
}

type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	id := req.Header.Get(HeaderRequestID)
	t.logger.Debug("request", "method", req.Method, "url", req.URL.Redacted(), "id", id)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug("request error", "method", req.Method, "path", req.URL.Path, "id", id, "err", err, "took", time.Since(start))
		return resp, err
	}
	t.logger.Debug("response", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "id", id, "took", time.Since(start))
	return resp, nil
}
