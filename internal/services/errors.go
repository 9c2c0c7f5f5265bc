// Package services holds the relay core: the Event Relay orchestrator, the
// Token-Health Monitor, the notifier that fronts the chat sink, and the
// message composer. This file centralizes the service-level error values
// returned to the HTTP layer for caller-input failures.
//
// Only caller-input errors leave the relay; every internal failure is logged,
// alerted, and normalized to an accepted result.
package services

import "errors"

var (
	// ErrForbidden indicates the inbound shared secret did not match.
	ErrForbidden = errors.New("forbidden")

	// ErrMissingEventID is returned when the trigger carried no event id.
	ErrMissingEventID = errors.New("missing event id")
)
