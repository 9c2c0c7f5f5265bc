package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

const (
	headerNew   = "📩 **NOWA REZERWACJA**"
	headerToday = "🚨 **REZERWACJA NA DZIŚ**"
	unknownRoom = "Nieznany pokój"
	placeholder = "?"
	testMessage = "✅ Relay -> Discord działa"
)

// Composer renders announcement and alert texts.
type Composer struct {
	Rooms     domain.RoomDirectory
	TodayRole string // mention token prepended to today's header, e.g. "<@&123>"
	Printer   *message.Printer
}

// NewComposer builds a Composer whose numbers are formatted for locale
// (BCP 47, e.g. "pl"). An unparsable locale falls back to Polish.
func NewComposer(rooms domain.RoomDirectory, todayRole, locale string) Composer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.Polish
	}
	if rooms == nil {
		rooms = domain.DefaultRooms()
	}
	return Composer{Rooms: rooms, TodayRole: strings.TrimSpace(todayRole), Printer: message.NewPrinter(tag)}
}

// Announcement renders the message for an "add" event. today selects the
// urgent header and role mention.
func (c Composer) Announcement(d *domain.EventDetail, today bool) string {
	var b strings.Builder

	if today {
		b.WriteString(headerToday)
		if c.TodayRole != "" {
			b.WriteString(" " + c.TodayRole)
		}
	} else {
		b.WriteString(headerNew)
	}

	room := unknownRoom
	if id, ok := d.Room(); ok {
		room = c.Rooms.Name(id)
		if m := c.Rooms.Mention(id); m != "" {
			room += " " + m
		}
	}

	fmt.Fprintf(&b, "\n🏠 Pokój: %s", room)
	fmt.Fprintf(&b, "\n📅 Data: %s", orPlaceholder(d.Data.Date))
	fmt.Fprintf(&b, "\n🕒 Godzina: %s", orPlaceholder(d.Data.Hour))
	fmt.Fprintf(&b, "\n👤 Klient: %s", orPlaceholder(d.ClientName()))

	if p := d.Data.People.String(); p != "" {
		fmt.Fprintf(&b, "\n👥 Osoby: %s", p)
	}
	if v := strings.TrimSpace(d.Data.Pricer); v != "" {
		fmt.Fprintf(&b, "\n🏷️ Cennik: %s", v)
	}
	if v := d.Data.Price.String(); v != "" {
		fmt.Fprintf(&b, "\n💰 Cena: %s", c.formatAmount(v))
	}
	if v := strings.TrimSpace(d.Data.Source); v != "" {
		fmt.Fprintf(&b, "\n🔗 Źródło: %s", v)
	}
	if v := strings.TrimSpace(d.Data.Comment); v != "" {
		// Fences inside the comment would close the block early.
		v = strings.ReplaceAll(v, "```", "'''")
		fmt.Fprintf(&b, "\n💬 Komentarz:\n```\n%s\n```", v)
	}
	return b.String()
}

// formatAmount localizes a numeric string; non-numeric input is kept as is.
func (c Composer) formatAmount(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || c.Printer == nil {
		return raw
	}
	return c.Printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func tokenDeadMessage(reason string) string {
	return fmt.Sprintf("🔑 Token LockMe odrzucony (401). Wymień LOCKME_TOKEN. Powód: %s", reason)
}

func tokenReminderMessage(since time.Time) string {
	return fmt.Sprintf("⏰ Przypomnienie: token LockMe nadal nieważny od %s.", since.Format("2006-01-02 15:04:05 MST"))
}

func tokenRecoveredMessage(deadFor time.Duration) string {
	return fmt.Sprintf("✅ Token LockMe znowu działa (po %s).", deadFor.Round(time.Second))
}

func failureMessage(eventID string, err error) string {
	return fmt.Sprintf("⚠️ Błąd obsługi webhooka (msg_id=%s): %v", eventID, err)
}
