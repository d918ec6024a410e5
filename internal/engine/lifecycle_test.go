package engine

import (
	"testing"
	"time"
)

func TestBetsAccepted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := 5 * time.Minute

	// Exactly at start-cutoff: rejected.
	if BetsAccepted(now.Add(5*time.Minute), now, cutoff) {
		t.Fatalf("bet at cutoff boundary accepted")
	}
	if BetsAccepted(now.Add(2*time.Minute), now, cutoff) {
		t.Fatalf("bet inside cutoff accepted")
	}
	if !BetsAccepted(now.Add(5*time.Minute+time.Second), now, cutoff) {
		t.Fatalf("bet before cutoff rejected")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusClosed, true},
		{StatusActive, StatusCancelled, true},
		{StatusClosed, StatusCancelled, false},
		{StatusCancelled, StatusClosed, false},
		{StatusClosed, StatusActive, false},
		{StatusCancelled, StatusActive, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("%s->%s got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseOutcome(t *testing.T) {
	if o, err := ParseOutcome(" Home "); err != nil || o != OutcomeHome {
		t.Fatalf("o=%q err=%v", o, err)
	}
	if _, err := ParseOutcome("tie"); err == nil {
		t.Fatalf("expected error for unknown outcome")
	}
}
