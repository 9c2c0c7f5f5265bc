package main

import (
	"testing"

	"github.com/negan-1/lockme-discord-bot/internal/config"
)

func TestStoreDSN(t *testing.T) {
	cases := []struct {
		in   config.StoreConfig
		want string
	}{
		{config.StoreConfig{Driver: config.DriverSQLite, Path: "seen.db", URL: "postgres://x"}, "seen.db"},
		{config.StoreConfig{Driver: config.DriverPostgres, Path: "seen.db", URL: "postgres://x"}, "postgres://x"},
	}
	for _, tc := range cases {
		if got := storeDSN(tc.in); got != tc.want {
			t.Fatalf("storeDSN(%s) = %q; want %q", tc.in.Driver, got, tc.want)
		}
	}
}
