package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

func roomPtr(id int) *domain.RoomID {
	r := domain.RoomID(id)
	return &r
}

func TestComposer_Announcement_FullEvent(t *testing.T) {
	rooms := domain.RoomDirectory{1398: {Name: "Dooby Doo", Mention: "<@&42>"}}
	c := NewComposer(rooms, "", "pl")

	d := &domain.EventDetail{
		Action: domain.ActionAdd,
		Data: domain.EventData{
			RoomID:  roomPtr(1398),
			Date:    "2024-06-01",
			Hour:    "18:00",
			Name:    "Anna",
			Surname: "Kowalska",
			People:  domain.Amount("4"),
			Price:   domain.Amount("150.5"),
			Pricer:  "Standard",
			Source:  "web",
			Comment: "urodziny ```x```",
		},
	}
	got := c.Announcement(d, false)

	for _, want := range []string{
		headerNew,
		"Pokój: Dooby Doo <@&42>",
		"Data: 2024-06-01",
		"Godzina: 18:00",
		"Klient: Anna Kowalska",
		"Osoby: 4",
		"Cennik: Standard",
		"Cena: 150,5",
		"Źródło: web",
		"```\nurodziny '''x'''\n```",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestComposer_Announcement_MinimalEventUsesPlaceholders(t *testing.T) {
	c := NewComposer(nil, "", "pl")
	got := c.Announcement(&domain.EventDetail{Action: domain.ActionAdd}, false)

	for _, want := range []string{"Pokój: " + unknownRoom, "Data: ?", "Godzina: ?", "Klient: ?"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	for _, absent := range []string{"Osoby", "Cennik", "Cena", "Źródło", "Komentarz"} {
		if strings.Contains(got, absent) {
			t.Fatalf("optional line %q should be omitted:\n%s", absent, got)
		}
	}
}

func TestComposer_Announcement_UnknownRoomAndTopLevelFallback(t *testing.T) {
	c := NewComposer(domain.DefaultRooms(), "", "pl")

	got := c.Announcement(&domain.EventDetail{Action: domain.ActionAdd, Data: domain.EventData{RoomID: roomPtr(999)}}, false)
	if !strings.Contains(got, "Pokój: Room #999") {
		t.Fatalf("unknown room should use the fallback label:\n%s", got)
	}

	got = c.Announcement(&domain.EventDetail{Action: domain.ActionAdd, RoomID: roomPtr(2132)}, false)
	if !strings.Contains(got, "Pokój: Syreni Śpiew") {
		t.Fatalf("top-level roomid should be used when data has none:\n%s", got)
	}
}

func TestComposer_Announcement_TodayHeader(t *testing.T) {
	c := NewComposer(nil, " <@&777> ", "pl")
	got := c.Announcement(&domain.EventDetail{Action: domain.ActionAdd}, true)
	if !strings.HasPrefix(got, headerToday+" <@&777>\n") {
		t.Fatalf("unexpected header:\n%s", got)
	}

	c = NewComposer(nil, "", "pl")
	got = c.Announcement(&domain.EventDetail{Action: domain.ActionAdd}, true)
	if !strings.HasPrefix(got, headerToday+"\n") {
		t.Fatalf("header without role mention expected:\n%s", got)
	}
}

func TestComposer_FormatAmount(t *testing.T) {
	cases := []struct {
		locale, in, want string
	}{
		{"pl", "120", "120"},
		{"pl", "99.99", "99,99"},
		{"en", "99.99", "99.99"},
		{"pl", "free", "free"},
		{"not a locale!", "1.5", "1,5"},
	}
	for _, tc := range cases {
		c := NewComposer(nil, "", tc.locale)
		if got := c.formatAmount(tc.in); got != tc.want {
			t.Fatalf("formatAmount(%q, %q) = %q, want %q", tc.locale, tc.in, got, tc.want)
		}
	}
}

func TestAlertTexts(t *testing.T) {
	if got := failureMessage("m1", errors.New("boom")); !strings.Contains(got, "msg_id=m1") || !strings.Contains(got, "boom") {
		t.Fatalf("failureMessage = %q", got)
	}
	if got := tokenDeadMessage("fetch returned 401"); !strings.Contains(got, "fetch returned 401") {
		t.Fatalf("tokenDeadMessage = %q", got)
	}
}
