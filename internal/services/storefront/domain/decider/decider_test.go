package decider

import (
	"errors"
	"testing"
	"time"
)

type counterEvent struct{ delta int }

type counterCommand struct{ delta int }

func counter() Decider[counterCommand, counterEvent, int] {
	return Decider[counterCommand, counterEvent, int]{
		InitialState: 0,
		Evolve: func(s int, e counterEvent) int {
			return s + e.delta
		},
		Decide: func(s int, c counterCommand, _ func() time.Time) ([]counterEvent, error) {
			if s+c.delta < 0 {
				return nil, errors.New("negative")
			}
			return []counterEvent{{delta: c.delta}}, nil
		},
	}
}

func TestFoldIsSequentialEvolve(t *testing.T) {
	d := counter()
	events := []counterEvent{{1}, {2}, {-1}}

	stepwise := d.Evolve(d.Evolve(d.Evolve(d.InitialState, events[0]), events[1]), events[2])
	if got := d.Fold(events); got != stepwise {
		t.Fatalf("fold = %d, stepwise = %d", got, stepwise)
	}
	if got := d.Fold(nil); got != d.InitialState {
		t.Fatalf("empty fold = %d", got)
	}
}

func TestTimestampIsUTC(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	got := Timestamp(func() time.Time { return fixed })
	if got != "2026-01-02T02:04:05Z" {
		t.Fatalf("timestamp = %q", got)
	}
}
