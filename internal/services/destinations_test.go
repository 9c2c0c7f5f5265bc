package services

import "testing"

func TestResolveDestinations(t *testing.T) {
	cases := []struct {
		name                 string
		today, all, alert    string
		wantToday, wantAlert string
	}{
		{"all set", "t", "c", "a", "t", "a"},
		{"only catch-all", "", "c", "", "c", "c"},
		{"today falls back to alert", "", "c", "a", "a", "a"},
		{"alert falls back to catch-all", "t", "c", "", "t", "c"},
		{"blank counts as unset", "  ", "c", " ", "c", "c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ResolveDestinations(tc.today, tc.all, tc.alert)
			if d.Today != tc.wantToday || d.Alert != tc.wantAlert || d.CatchAll != tc.all {
				t.Fatalf("got %+v", d)
			}
		})
	}
}
