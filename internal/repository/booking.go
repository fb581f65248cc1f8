package repository

import "time"

// Pure booking rules shared by the match and reservation repositories. They
// are kept free of SQL so the invariants can be tested directly.

// Capacity is the derived participant state stored on a match row. All three
// fields are functions of the active-reservation count and the maximum; the
// reservations table stays the single source of truth.
type Capacity struct {
	CurrentPlayers uint32
	SpotsLeft      uint32
	IsFull         bool
}

// ComputeCapacity derives the counter fields from the active-reservation
// count. SpotsLeft clamps at zero so a race-induced overshoot can never
// surface as a negative number of open spots.
func ComputeCapacity(maximumPlayers, activeReservations uint32) Capacity {
	c := Capacity{CurrentPlayers: activeReservations}
	if activeReservations < maximumPlayers {
		c.SpotsLeft = maximumPlayers - activeReservations
	}
	c.IsFull = activeReservations >= maximumPlayers
	return c
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A match that ends exactly when another begins
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// MatchEnd derives the end of a match from its start and duration.
func MatchEnd(start time.Time, durationMinutes uint32) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}
