// Relay HTTP handlers.
//
//   - GET|POST /lockme        provider notification (secret in ?s=, id in X-MessageId)
//   - GET      /health        liveness plus provider token state
//   - GET      /test-discord  sends a test message to the catch-all channel
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/negan-1/lockme-discord-bot/internal/http/middleware"
	"github.com/negan-1/lockme-discord-bot/internal/services"
)

// secretParam is the query parameter carrying the shared secret.
const secretParam = "s"

// Relay runs one webhook invocation (see services.Relay).
type Relay interface {
	Handle(ctx context.Context, trig services.Trigger) services.Result
	Authorized(secret string) bool
}

// TokenReporter exposes the provider credential state (see services.TokenHealth).
type TokenReporter interface {
	Status() services.TokenStatus
}

// Tester delivers a connectivity check (see services.Notifier).
type Tester interface {
	Test(ctx context.Context) error
}

// Handlers groups the relay endpoints.
type Handlers struct {
	relay  Relay
	token  TokenReporter
	tester Tester
}

// New binds the handlers to their services.
func New(relay Relay, token TokenReporter, tester Tester) *Handlers {
	return &Handlers{relay: relay, token: token, tester: tester}
}

// HealthResponse reports liveness and the provider token state.
type HealthResponse struct {
	OK        bool       `json:"ok" example:"true"`
	Token     string     `json:"token" example:"ok" enums:"ok,dead"`
	DeadSince *time.Time `json:"dead_since,omitempty"`
}

// Webhook godoc
// @ID          lockmeWebhook
// @Summary     Receive a LockMe notification
// @Description Fetches the event behind X-MessageId, announces new bookings on Discord, acknowledges the event upstream, and records it as handled. Internal failures are alerted and still answered with 200 so the provider stops retrying.
// @Tags        Webhook
// @Produce     json
// @Param       s            query   string  false "Shared secret"
// @Param       X-MessageId  header  string  true  "Provider message id"  example(abc123)
// @Success     200  {object}  handlers.OKResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or malformed X-MessageId"
// @Failure     403  {object}  handlers.ErrorResponse  "Wrong secret"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /lockme [get]
// @Router      /lockme [post]
func (h *Handlers) Webhook(c *gin.Context) {
	res := h.relay.Handle(c.Request.Context(), services.Trigger{
		Secret:  c.Query(secretParam),
		EventID: middleware.EventIDFrom(c),
	})

	switch res.Outcome {
	case services.OutcomeForbidden:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case services.OutcomeBadRequest:
		msg := "missing X-MessageId"
		if middleware.EventIDMalformed(c) {
			msg = "malformed X-MessageId"
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg)
	default:
		ok(c, http.StatusOK, OKResponse{OK: true})
	}
}

// Health godoc
// @ID          health
// @Summary     Liveness and token state
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	resp := HealthResponse{OK: true, Token: "ok"}
	if h.token != nil {
		if st := h.token.Status(); st.Dead {
			since := st.DeadSince
			resp.Token = "dead"
			resp.DeadSince = &since
		}
	}
	ok(c, http.StatusOK, resp)
}

// TestDiscord godoc
// @ID          testDiscord
// @Summary     Send a test message
// @Description Delivers a fixed message to the catch-all Discord channel. Guarded by the same shared secret as the webhook.
// @Tags        Ops
// @Produce     json
// @Param       s  query  string  false "Shared secret"
// @Success     200  {object}  handlers.OKResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Wrong secret"
// @Failure     502  {object}  handlers.ErrorResponse  "Delivery failed"
// @Router      /test-discord [get]
func (h *Handlers) TestDiscord(c *gin.Context) {
	if !h.relay.Authorized(c.Query(secretParam)) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "forbidden")
		return
	}
	if err := h.tester.Test(c.Request.Context()); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("test delivery failed")
		fail(c, http.StatusBadGateway, ErrCodeDeliveryFailed, "discord delivery failed")
		return
	}
	ok(c, http.StatusOK, OKResponse{OK: true})
}
