package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/negan-1/lockme-discord-bot/internal/discord"
)

// Sink delivers content to a destination (see discord.Client).
type Sink interface {
	Deliver(ctx context.Context, destination, content string, mentions discord.MentionPolicy) error
}

// Notifier separates announcement delivery, whose failure the caller must
// handle, from alert delivery, whose failure is only logged so alerts can
// never recurse.
type Notifier struct {
	Sink Sink
	Dest Destinations
	Log  zerolog.Logger
}

// Announce delivers a reservation announcement with mentions enabled.
func (n *Notifier) Announce(ctx context.Context, destination, content string) error {
	err := n.Sink.Deliver(ctx, destination, content, discord.MentionRolesAndUsers)
	relayDeliveries.WithLabelValues("announcement", resultLabel(err)).Inc()
	return err
}

// Alert delivers an operational message to the alert channel with all
// mentions suppressed. Failures are logged and swallowed.
func (n *Notifier) Alert(ctx context.Context, text string) {
	err := n.Sink.Deliver(ctx, n.Dest.Alert, text, discord.MentionNone)
	relayDeliveries.WithLabelValues("alert", resultLabel(err)).Inc()
	if err != nil {
		n.Log.Warn().Err(err).Msg("alert delivery failed")
	}
}

// Test sends a connectivity check to the catch-all destination.
func (n *Notifier) Test(ctx context.Context) error {
	err := n.Sink.Deliver(ctx, n.Dest.CatchAll, testMessage, discord.MentionNone)
	relayDeliveries.WithLabelValues("test", resultLabel(err)).Inc()
	return err
}
