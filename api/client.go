// ABOUTME: Authenticated REST client for the Broker Adda backend
// ABOUTME: Builds requests, runs them through the interceptor chain and unwraps the response envelope
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/session"
)

const (
	DefaultBaseURL   = "https://api.brokeradda.in"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "adda-cli"

	maxBodyBytes = 10 << 20
)

// Client is one shared authenticated client. Every request gets the session
// token attached and a 401 tears the session down.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	logger    *log.Logger
	session   *session.Manager
	base      http.RoundTripper

	httpClient *http.Client

	Auth          *AuthService
	Brokers       *BrokersService
	Regions       *RegionsService
	Leads         *LeadsService
	Properties    *PropertiesService
	Notifications *NotificationsService
	Ratings       *RatingsService
}

type service struct {
	client *Client
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient uses hc's transport underneath the interceptor chain.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil && hc.Transport != nil {
			c.base = hc.Transport
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each call. Zero disables the client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func NewClient(sess *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    log.Default(),
		session:   sess,
		base:      http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("api")

	c.httpClient = &http.Client{
		Timeout:   c.timeout,
		Transport: c.transport(),
	}

	common := service{client: c}
	c.Auth = (*AuthService)(&common)
	c.Brokers = (*BrokersService)(&common)
	c.Regions = (*RegionsService)(&common)
	c.Leads = (*LeadsService)(&common)
	c.Properties = (*PropertiesService)(&common)
	c.Notifications = (*NotificationsService)(&common)
	c.Ratings = (*RatingsService)(&common)
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session manager the client authenticates with.
func (c *Client) Session() *session.Manager {
	return c.session
}

// HTTPClient exposes the intercepted client for callers issuing raw requests
// against the same backend.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindClient, Message: MsgUnknown, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, &Error{Kind: KindClient, Message: MsgUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends req and returns the raw body of a 2xx response. Every failure is
// an *Error.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Normalize(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, Normalize(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := StatusError(resp.StatusCode, body)
		c.logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "err", apiErr.Detail())
		return nil, apiErr
	}
	return body, nil
}

// call is the common JSON round trip: build, send, unwrap into out.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode unwraps {success, message, data}. Bodies without a data field
// decode whole, so unwrapped payloads still work.
func decode(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	var env envelope
	if body[0] != '{' || json.Unmarshal(body, &env) != nil {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindDecode, Message: MsgDecode, Err: err}
		}
		return nil
	}

	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = MsgUnknown
		}
		return &Error{Kind: KindClient, Status: http.StatusOK, Message: msg}
	}

	if out == nil {
		return nil
	}

	payload := body
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Kind: KindDecode, Message: MsgDecode, Err: err}
	}
	return nil
}

func pathID(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func requireID(what, id string) error {
	if strings.TrimSpace(id) == "" {
		return &Error{Kind: KindValidation, Message: what + " is required"}
	}
	return nil
}
