package repository

import (
	"testing"
	"time"
)

func TestComputeCapacityCounts(t *testing.T) {
	got := ComputeCapacity(10, 0)
	if got.CurrentPlayers != 0 || got.SpotsLeft != 10 || got.IsFull {
		t.Fatalf("empty match: got %+v", got)
	}

	got = ComputeCapacity(10, 4)
	if got.CurrentPlayers != 4 || got.SpotsLeft != 6 || got.IsFull {
		t.Fatalf("partially filled match: got %+v", got)
	}

	got = ComputeCapacity(10, 10)
	if got.CurrentPlayers != 10 || got.SpotsLeft != 0 || !got.IsFull {
		t.Fatalf("full match: got %+v", got)
	}
}

func TestComputeCapacityClampsAtZero(t *testing.T) {
	// More active reservations than the maximum can briefly exist after an
	// admin shrinks a match; spots_left must not wrap around.
	got := ComputeCapacity(8, 11)
	if got.SpotsLeft != 0 {
		t.Fatalf("expected spots_left 0, got %d", got.SpotsLeft)
	}
	if !got.IsFull {
		t.Fatal("expected over-subscribed match to report full")
	}
	if got.CurrentPlayers != 11 {
		t.Fatalf("expected current_players 11, got %d", got.CurrentPlayers)
	}
}

func TestOverlapsBoundaryExclusive(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := base.Add(time.Hour)

	// Back-to-back slots share an instant but do not overlap.
	if Overlaps(base, end, end, end.Add(time.Hour)) {
		t.Fatal("slot starting exactly at the end must not overlap")
	}
	if Overlaps(base, end, base.Add(-time.Hour), base) {
		t.Fatal("slot ending exactly at the start must not overlap")
	}
}

func TestOverlapsDetectsIntersection(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := base.Add(time.Hour)

	cases := []struct {
		name   string
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"identical", base, end, true},
		{"starts inside", base.Add(30 * time.Minute), end.Add(time.Hour), true},
		{"ends inside", base.Add(-time.Hour), base.Add(time.Minute), true},
		{"contains", base.Add(-time.Hour), end.Add(time.Hour), true},
		{"contained", base.Add(10 * time.Minute), base.Add(20 * time.Minute), true},
		{"before", base.Add(-2 * time.Hour), base.Add(-time.Hour), false},
		{"after", end.Add(time.Hour), end.Add(2 * time.Hour), false},
	}
	for _, tc := range cases {
		if got := Overlaps(base, end, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatchEnd(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	end := MatchEnd(start, 90)
	want := start.Add(90 * time.Minute)
	if !end.Equal(want) {
		t.Fatalf("got %v, want %v", end, want)
	}
}
