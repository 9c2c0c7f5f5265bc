// Package services – Event Relay
//
// Relay handles one inbound provider notification: it authorizes the
// trigger, short-circuits ids already seen, fetches the event detail,
// classifies and routes it, announces it, acknowledges it upstream, and
// records it as seen. Internal failures never reach the caller; they are
// logged, alerted, and normalized to an accepted result so the provider does
// not retry.
//
// Observability: Handle is OpenTelemetry-instrumented and every terminal
// disposition is counted in relay_events_total.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
	"github.com/negan-1/lockme-discord-bot/internal/lockme"
)

// dateLayout is the provider's reservation date format.
const dateLayout = "2006-01-02"

// SeenStore is the durable set of handled ids (see repo.SeenStore).
type SeenStore interface {
	Has(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID string) error
}

// Provider fetches and acknowledges events (see lockme.Client).
type Provider interface {
	Fetch(ctx context.Context, eventID string) (*domain.EventDetail, error)
	Acknowledge(ctx context.Context, eventID string) error
}

// TokenObserver receives credential outcomes (see TokenHealth).
type TokenObserver interface {
	MarkDead(ctx context.Context, reason string)
	MarkHealthy(ctx context.Context)
}

// Outcome is what the inbound caller observes.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeForbidden
	OutcomeBadRequest
)

// Disposition is the internal terminal state of one invocation.
type Disposition string

const (
	DispositionForbidden      Disposition = "forbidden"
	DispositionBadRequest     Disposition = "bad_request"
	DispositionDuplicate      Disposition = "duplicate"
	DispositionStoreFailed    Disposition = "store_failed"
	DispositionTokenDead      Disposition = "token_dead"
	DispositionFetchFailed    Disposition = "fetch_failed"
	DispositionIgnored        Disposition = "ignored_action"
	DispositionStale          Disposition = "stale"
	DispositionAnnounced      Disposition = "announced"
	DispositionAnnouncedToday Disposition = "announced_today"
	DispositionFailed         Disposition = "failed"
)

// Trigger is one inbound notification.
type Trigger struct {
	Secret  string // shared secret supplied by the caller
	EventID string
}

// Result is the structured outcome of Handle. Err is set only for caller errors.
type Result struct {
	Outcome     Outcome
	Disposition Disposition
	Err         error
}

// Relay is safe for concurrent use. Concurrent invocations for the same id
// are collapsed into one unit of work.
type Relay struct {
	Secret    string
	Store     SeenStore
	Provider  Provider
	Token     TokenObserver // optional
	Notifier  *Notifier
	Composer  Composer
	Location  *time.Location
	StartedAt time.Time
	Now       func() time.Time
	Log       zerolog.Logger

	flights singleflight.Group
}

// Handle runs the relay algorithm for one trigger.
func (r *Relay) Handle(ctx context.Context, trig Trigger) Result {
	tr := otel.Tracer("services/Relay")
	ctx, span := tr.Start(ctx, "Handle",
		trace.WithAttributes(attribute.String("event.id", trig.EventID)),
	)
	defer span.End()

	if !r.Authorized(trig.Secret) {
		relayEvents.WithLabelValues(string(DispositionForbidden)).Inc()
		return Result{Outcome: OutcomeForbidden, Disposition: DispositionForbidden, Err: ErrForbidden}
	}
	id := strings.TrimSpace(trig.EventID)
	if id == "" {
		relayEvents.WithLabelValues(string(DispositionBadRequest)).Inc()
		return Result{Outcome: OutcomeBadRequest, Disposition: DispositionBadRequest, Err: ErrMissingEventID}
	}

	// The unit of work must finish even if the caller hangs up.
	work := context.WithoutCancel(ctx)
	v, _, _ := r.flights.Do(id, func() (any, error) {
		return r.process(work, id), nil
	})
	disp := v.(Disposition)

	span.SetAttributes(attribute.String("relay.disposition", string(disp)))
	relayEvents.WithLabelValues(string(disp)).Inc()
	r.Log.Info().Str("event_id", id).Str("disposition", string(disp)).Msg("relay")
	return Result{Outcome: OutcomeAccepted, Disposition: disp}
}

// Authorized reports whether secret matches the configured shared secret.
// An empty configured secret authorizes every caller.
func (r *Relay) Authorized(secret string) bool {
	if r.Secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(r.Secret)) == 1
}

// process handles an authorized, non-empty id.
func (r *Relay) process(ctx context.Context, id string) (disp Disposition) {
	// A panic before the event is fetched is handled like a failed fetch:
	// alerted, not acked, not recorded.
	defer func() {
		if rec := recover(); rec != nil {
			r.reportFailure(ctx, id, fmt.Errorf("panic: %v", rec))
			disp = DispositionFailed
		}
	}()

	seen, err := r.Store.Has(ctx, id)
	if err != nil {
		// Left unrecorded so a redelivery can try again.
		r.reportFailure(ctx, id, fmt.Errorf("seen lookup: %w", err))
		return DispositionStoreFailed
	}
	if seen {
		return DispositionDuplicate
	}

	detail, err := r.Provider.Fetch(ctx, id)
	switch {
	case errors.Is(err, lockme.ErrUnauthorized):
		// Abandoned, not retried: acknowledging with a dead token is pointless.
		if r.Token != nil {
			r.Token.MarkDead(ctx, "fetch returned 401")
		}
		r.record(ctx, id)
		return DispositionTokenDead
	case err != nil:
		// Not acked, not recorded: the provider's redelivery retries it.
		r.reportFailure(ctx, id, fmt.Errorf("fetch: %w", err))
		return DispositionFetchFailed
	}

	// From here on every exit path acknowledges, records, and alerts on failure.
	var failure error
	defer func() {
		if rec := recover(); rec != nil {
			failure = fmt.Errorf("panic: %v", rec)
			disp = DispositionFailed
		}
		r.acknowledge(ctx, id)
		r.record(ctx, id)
		if failure != nil {
			r.reportFailure(ctx, id, failure)
		}
	}()

	if !detail.IsAnnouncement() {
		return DispositionIgnored
	}
	if r.isStale(detail) {
		return DispositionStale
	}

	today := r.isToday(detail)
	destination := r.Notifier.Dest.CatchAll
	if today {
		destination = r.Notifier.Dest.Today
	}
	content := r.Composer.Announcement(detail, today)
	if err := r.Notifier.Announce(ctx, destination, content); err != nil {
		failure = fmt.Errorf("announce: %w", err)
		return DispositionFailed
	}
	if today {
		return DispositionAnnouncedToday
	}
	return DispositionAnnounced
}

// isStale reports whether the event was created before this process started.
// A missing or malformed timestamp is never stale.
func (r *Relay) isStale(d *domain.EventDetail) bool {
	created, ok := d.CreatedAt(r.location())
	return ok && created.Before(r.StartedAt)
}

// isToday compares the reservation date with today's calendar date in the
// configured zone. The time of day is ignored.
func (r *Relay) isToday(d *domain.EventDetail) bool {
	today := r.now().In(r.location()).Format(dateLayout)
	return strings.TrimSpace(d.Data.Date) == today
}

// acknowledge is best-effort. A 401 has already been routed to the token
// monitor by the provider client, so it is not alerted again here.
func (r *Relay) acknowledge(ctx context.Context, id string) {
	err := r.Provider.Acknowledge(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, lockme.ErrUnauthorized):
		if r.Token != nil {
			r.Token.MarkDead(ctx, "acknowledge returned 401")
		}
		r.Log.Debug().Str("event_id", id).Msg("acknowledge skipped: token rejected")
	default:
		r.Log.Warn().Err(err).Str("event_id", id).Msg("acknowledge failed")
		r.Notifier.Alert(ctx, failureMessage(id, fmt.Errorf("acknowledge: %w", err)))
	}
}

// record is best-effort.
func (r *Relay) record(ctx context.Context, id string) {
	if err := r.Store.Record(ctx, id); err != nil {
		r.Log.Error().Err(err).Str("event_id", id).Msg("mark seen failed")
		r.Notifier.Alert(ctx, failureMessage(id, fmt.Errorf("mark seen: %w", err)))
	}
}

func (r *Relay) reportFailure(ctx context.Context, id string, err error) {
	r.Log.Error().Err(err).Str("event_id", id).Msg("relay failure")
	r.Notifier.Alert(ctx, failureMessage(id, err))
}

func (r *Relay) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Relay) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.UTC
}
