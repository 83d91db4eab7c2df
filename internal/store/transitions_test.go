package store

import (
	"testing"
	"time"

	"officeq/queue-service/internal/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"assign", "waiting", true},
		{"assign", "served", false},
		{"assign", "not_served", false},
		{"serve", "waiting", true},
		{"serve", "served", false},
		{"serve", "not_served", false},
		{"not_serve", "waiting", true},
		{"not_serve", "served", false},
		{"not_serve", "not_served", false},
		{"unknown", "waiting", false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestTerminal(t *testing.T) {
	if Terminal(models.StatusWaiting) {
		t.Fatalf("waiting must not be terminal")
	}
	if !Terminal(models.StatusServed) || !Terminal(models.StatusNotServed) {
		t.Fatalf("served and not_served must be terminal")
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	// 01:30 on Mar 2 at UTC+2 is still Mar 1 in UTC.
	got := Day(time.Date(2026, 3, 2, 1, 30, 0, 0, loc))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Day=%v, want %v", got, want)
	}

	same := Day(time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC))
	if !same.Equal(want) {
		t.Fatalf("Day=%v, want %v", same, want)
	}
}
