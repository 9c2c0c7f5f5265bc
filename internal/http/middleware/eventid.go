package middleware

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

// HeaderEventID carries the provider's message identifier on webhook calls.
const HeaderEventID = "X-MessageId"

const (
	ctxKeyEventID      = "event.id"
	ctxKeyEventIDValid = "event.id.valid"
)

// EventIDOptions configures EventID.
type EventIDOptions struct {
	// MaxLen caps the accepted id length. Values <= 0 default to 128.
	MaxLen int
	// Pattern optionally restricts the id further. Nil accepts any opaque
	// value free of control characters.
	Pattern *regexp.Regexp
}

// EventID normalizes the X-MessageId header and stashes it for handlers.
//
// It never aborts: a malformed id is stored as empty so the relay rejects it
// with 400 only after the shared secret has been checked, keeping 403 the
// answer for unauthenticated callers.
func EventID(opts EventIDOptions) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 128
	}
	pat := opts.Pattern

	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderEventID))
		valid := id == "" || (len(id) <= maxLen && !hasControl(id) && (pat == nil || pat.MatchString(id)))
		if !valid {
			LoggerFrom(c).Warn().Int("len", len(id)).Msg("malformed " + HeaderEventID)
			id = ""
		}
		c.Set(ctxKeyEventID, id)
		c.Set(ctxKeyEventIDValid, valid)
		c.Next()
	}
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// EventIDFrom returns the id stored by EventID. Without the middleware it
// falls back to the trimmed header.
func EventIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyEventID); ok {
		return asString(v)
	}
	return strings.TrimSpace(c.GetHeader(HeaderEventID))
}

// EventIDMalformed reports whether EventID rejected the header value.
func EventIDMalformed(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyEventIDValid)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return !b
}
