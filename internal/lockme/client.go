// Package lockme is the client for the booking provider's REST API. It
// fetches the full detail behind a webhook notification id and acknowledges
// ids so the provider stops redelivering them.
//
// Every call reports its credential outcome to an optional TokenObserver:
// a 401 marks the token dead, any authenticated success marks it healthy.
package lockme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

// DefaultBaseURL is the provider API root.
const DefaultBaseURL = "https://api.lock.me/v2.4"

// DefaultTimeout bounds every provider round trip.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

var (
	// ErrUnauthorized is returned when the provider rejects the credential (HTTP 401).
	ErrUnauthorized = errors.New("lockme: credential rejected")
	// ErrUnreachable covers network errors and timeouts.
	ErrUnreachable = errors.New("lockme: unreachable")
	// ErrBadResponse covers other non-2xx statuses and unparseable bodies.
	ErrBadResponse = errors.New("lockme: bad response")
	// ErrMissingToken is returned before any network call when no credential is configured.
	ErrMissingToken = errors.New("lockme: token is not configured")
)

// TokenObserver receives credential outcomes of provider calls.
type TokenObserver interface {
	MarkDead(ctx context.Context, reason string)
	MarkHealthy(ctx context.Context)
}

// Client talks to the provider API. It is safe for concurrent use.
type Client struct {
	BaseURL  string
	Token    string
	HTTP     *http.Client
	Observer TokenObserver
}

// New returns a Client with a bounded HTTP timeout.
func New(baseURL, token string, timeout time.Duration, observer TokenObserver) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		HTTP:     NewHTTPClient(timeout),
		Observer: observer,
	}
}

// NewHTTPClient builds an http.Client with dial and TLS handshake limits in
// addition to the overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Fetch returns the event detail for id (GET /message/{id}).
func (c *Client) Fetch(ctx context.Context, id string) (*domain.EventDetail, error) {
	ctx, span := otel.Tracer("lockme/Client").Start(ctx, "Fetch",
		trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	var detail domain.EventDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: decode: %v", ErrBadResponse, err)
	}
	return &detail, nil
}

// Acknowledge tells the provider id was handled (POST /message/{id}).
// A 401 is reported to the observer and returned as ErrUnauthorized; callers
// treat acknowledgement as best-effort.
func (c *Client) Acknowledge(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("lockme/Client").Start(ctx, "Acknowledge",
		trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	_, err := c.do(ctx, http.MethodPost, id)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, id string) ([]byte, error) {
	if strings.TrimSpace(c.Token) == "" {
		return nil, ErrMissingToken
	}
	endpoint := c.BaseURL + "/message/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrBadResponse, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		if c.Observer != nil {
			c.Observer.MarkDead(ctx, fmt.Sprintf("%s /message/%s returned 401", method, id))
		}
		return nil, ErrUnauthorized
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s /message/%s: http %d", ErrBadResponse, method, id, resp.StatusCode)
	}
	if c.Observer != nil {
		c.Observer.MarkHealthy(ctx)
	}
	return body, nil
}
