package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultReminderInterval is how often a dead token is re-announced.
const DefaultReminderInterval = 10 * time.Minute

// Alerter sends operational alerts; delivery failures are its own concern.
type Alerter interface {
	Alert(ctx context.Context, text string)
}

// TokenStatus is a snapshot of the monitor state.
type TokenStatus struct {
	Dead      bool
	DeadSince time.Time
}

// TokenHealth tracks whether the provider credential is rejected. The
// Healthy->Dead and Dead->Healthy transitions are compare-and-set under mu,
// so concurrent observers of the same outcome produce one alert. Re-entering
// the current state has no side effects.
type TokenHealth struct {
	mu        sync.Mutex
	dead      bool
	deadSince time.Time

	alerts   Alerter
	log      zerolog.Logger
	now      func() time.Time
	loc      *time.Location
	interval time.Duration

	cmu     sync.Mutex
	cron    *cron.Cron
	started bool
}

// NewTokenHealth returns a healthy monitor. interval <= 0 uses
// DefaultReminderInterval; a nil loc means UTC.
func NewTokenHealth(alerts Alerter, interval time.Duration, loc *time.Location, log zerolog.Logger) *TokenHealth {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TokenHealth{
		alerts:   alerts,
		log:      log,
		now:      time.Now,
		loc:      loc,
		interval: interval,
	}
}

// MarkDead transitions Healthy->Dead and emits one alert.
func (t *TokenHealth) MarkDead(ctx context.Context, reason string) {
	t.mu.Lock()
	if t.dead {
		t.mu.Unlock()
		return
	}
	t.dead = true
	t.deadSince = t.now().In(t.loc)
	t.mu.Unlock()

	tokenDead.Set(1)
	t.log.Error().Str("reason", reason).Msg("provider token rejected")
	t.alerts.Alert(ctx, tokenDeadMessage(reason))
}

// MarkHealthy transitions Dead->Healthy and emits one recovery alert.
func (t *TokenHealth) MarkHealthy(ctx context.Context) {
	t.mu.Lock()
	if !t.dead {
		t.mu.Unlock()
		return
	}
	since := t.deadSince
	t.dead = false
	t.deadSince = time.Time{}
	t.mu.Unlock()

	tokenDead.Set(0)
	t.log.Info().Time("dead_since", since).Msg("provider token recovered")
	t.alerts.Alert(ctx, tokenRecoveredMessage(t.now().Sub(since)))
}

// Status returns the current state.
func (t *TokenHealth) Status() TokenStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TokenStatus{Dead: t.dead, DeadSince: t.deadSince}
}

// Remind emits a reminder if the token is dead at call time. It reports
// whether a reminder was sent.
func (t *TokenHealth) Remind(ctx context.Context) bool {
	st := t.Status()
	if !st.Dead {
		return false
	}
	t.alerts.Alert(ctx, tokenReminderMessage(st.DeadSince))
	return true
}

// Start schedules the reminder job. Only the first call in the process
// lifetime starts it; later calls (including after Stop) are no-ops.
func (t *TokenHealth) Start(ctx context.Context) error {
	t.cmu.Lock()
	defer t.cmu.Unlock()
	if t.started {
		return nil
	}

	c := cron.New(cron.WithLocation(t.loc))
	spec := fmt.Sprintf("@every %s", t.interval)
	if _, err := c.AddFunc(spec, func() {
		if t.Remind(ctx) {
			t.log.Debug().Msg("token reminder sent")
		}
	}); err != nil {
		return fmt.Errorf("schedule token reminder: %w", err)
	}
	c.Start()
	t.cron = c
	t.started = true
	t.log.Info().Dur("interval", t.interval).Msg("token reminder started")
	return nil
}

// Running reports whether the reminder job is scheduled.
func (t *TokenHealth) Running() bool {
	t.cmu.Lock()
	defer t.cmu.Unlock()
	return t.cron != nil
}

// Stop cancels the reminder job and waits for a running reminder to finish
// or for ctx to expire.
func (t *TokenHealth) Stop(ctx context.Context) {
	t.cmu.Lock()
	c := t.cron
	t.cron = nil
	t.cmu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	t.log.Info().Msg("token reminder stopped")
}
