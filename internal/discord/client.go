// Package discord delivers messages to Discord webhook URLs.
//
// Mentions are never implicit: every delivery states a MentionPolicy that is
// translated into Discord's allowed_mentions field, so a role token embedded
// in an alert cannot ping anyone unless the caller asked for it.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single webhook POST.
const DefaultTimeout = 10 * time.Second

// MaxContentRunes is Discord's message content limit.
const MaxContentRunes = 2000

// ErrDeliveryFailed is returned when the destination is unconfigured or the
// webhook call does not return 2xx.
var ErrDeliveryFailed = errors.New("discord: delivery failed")

// MentionPolicy controls whether mention tokens in content actually ping.
type MentionPolicy int

const (
	// MentionNone suppresses every mention.
	MentionNone MentionPolicy = iota
	// MentionRolesAndUsers lets role and user tokens ping. @everyone/@here stay suppressed.
	MentionRolesAndUsers
)

func (p MentionPolicy) String() string {
	if p == MentionRolesAndUsers {
		return "roles_users"
	}
	return "none"
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type webhookPayload struct {
	Content         string          `json:"content"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

// Client posts to webhook URLs. A nil Limiter disables outbound throttling.
// It is safe for concurrent use.
type Client struct {
	HTTP    *http.Client
	Limiter *rate.Limiter
}

// New returns a Client. rps <= 0 disables the limiter.
func New(timeout time.Duration, rps float64, burst int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

// Deliver posts content to destination with the given mention policy.
func (c *Client) Deliver(ctx context.Context, destination, content string, mentions MentionPolicy) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: destination is not configured", ErrDeliveryFailed)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait: %v", ErrDeliveryFailed, err)
		}
	}

	payload := webhookPayload{
		Content:         clip(content, MaxContentRunes),
		AllowedMentions: allowedMentions{Parse: []string{}},
	}
	if mentions == MentionRolesAndUsers {
		payload.AllowedMentions.Parse = []string{"roles", "users"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, redactURL(err.Error(), destination))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: http %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// clip truncates s to max runes, marking the cut with an ellipsis.
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// redactURL keeps webhook tokens (part of the URL path) out of error text.
func redactURL(msg, destination string) string {
	return strings.ReplaceAll(msg, destination, "[webhook]")
}
