package services

import "github.com/negan-1/lockme-discord-bot/internal/sysutil"

// Destinations are the resolved notification channels.
type Destinations struct {
	Today    string // reservations dated today
	CatchAll string // every other announcement
	Alert    string // operational problems
}

// ResolveDestinations applies the fallback chain: alert falls back to the
// catch-all channel, today falls back to alert and then catch-all.
func ResolveDestinations(today, catchAll, alert string) Destinations {
	resolvedAlert := sysutil.FirstNonEmpty(alert, catchAll)
	return Destinations{
		Today:    sysutil.FirstNonEmpty(today, resolvedAlert, catchAll),
		CatchAll: catchAll,
		Alert:    resolvedAlert,
	}
}
