package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ActionAdd is the only provider action that produces an announcement.
const ActionAdd = "add"

// CreatedAtLayout is the provider's naive local datetime format for
// EventData.Time.
const CreatedAtLayout = "2006-01-02 15:04:05"

// RoomID is a provider room identifier. The provider is inconsistent about
// encoding it as a JSON number or a numeric string; both are accepted.
type RoomID int

// UnmarshalJSON accepts 1398, "1398", and null.
func (r *RoomID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("roomid: %w", err)
	}
	*r = RoomID(n)
	return nil
}

// Amount is a loosely typed display value such as a head count or a price.
// The provider sends it as a number, a numeric string, an empty string, or
// free text like "150 zł"; all of them decode, and the text is kept as is.
type Amount string

// UnmarshalJSON never fails on a scalar: numbers keep their literal text,
// strings are unquoted and trimmed, null leaves the value empty.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(strings.TrimSpace(s))
	default:
		*a = Amount(raw)
	}
	return nil
}

// String returns the value as received.
func (a Amount) String() string { return string(a) }

// EventDetail is the provider's record for one notification id
// (GET /message/{id}).
type EventDetail struct {
	Action string    `json:"action"`
	RoomID *RoomID   `json:"roomid,omitempty"`
	Data   EventData `json:"data"`
}

// EventData is the reservation payload nested in EventDetail.
type EventData struct {
	RoomID  *RoomID     `json:"roomid,omitempty"`
	Date    string      `json:"date"`
	Hour    string      `json:"hour"`
	Time    string      `json:"time,omitempty"` // event creation, provider-local naive datetime
	Name    string      `json:"name"`
	Surname string      `json:"surname"`
	People  Amount      `json:"people,omitempty"`
	Price   Amount      `json:"price,omitempty"`
	Pricer  string      `json:"pricer,omitempty"`
	Source  string      `json:"source,omitempty"`
	Comment string      `json:"comment,omitempty"`
}

// IsAnnouncement reports whether the event is a reservation creation.
func (d EventDetail) IsAnnouncement() bool { return d.Action == ActionAdd }

// Room returns the room id from the payload, falling back to the top-level
// field. ok is false when neither is present.
func (d EventDetail) Room() (RoomID, bool) {
	if d.Data.RoomID != nil {
		return *d.Data.RoomID, true
	}
	if d.RoomID != nil {
		return *d.RoomID, true
	}
	return 0, false
}

// CreatedAt parses Data.Time in loc. ok is false when the field is absent or
// malformed; callers treat that as "not stale".
func (d EventDetail) CreatedAt(loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(d.Data.Time)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(CreatedAtLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ClientName joins given and family name; empty when both are blank.
func (d EventDetail) ClientName() string {
	return strings.TrimSpace(strings.TrimSpace(d.Data.Name) + " " + strings.TrimSpace(d.Data.Surname))
}
