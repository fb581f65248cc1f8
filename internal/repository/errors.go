// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers to
// distinguish between different failure scenarios: a full match, a
// double-booked time slot, a duplicate reservation. Handlers translate each
// sentinel into an HTTP status at the boundary.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state that has no more specific sentinel. Handlers should
// translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrOverlap is returned when a match cannot be scheduled because another
// match on the same sub-field intersects the requested time window.
var ErrOverlap = errors.New("time slot overlaps an existing match")

// ErrCapacityFull is returned when a reservation cannot be created or
// re-activated because the match has no spots left.
var ErrCapacityFull = errors.New("match is full")

// ErrDuplicateReservation is returned when the user already holds an active
// reservation for the match.
var ErrDuplicateReservation = errors.New("duplicate active reservation")

// ErrPlayerBounds is returned when a match write would leave
// minimum_players above maximum_players.
var ErrPlayerBounds = errors.New("minimum_players exceeds maximum_players")

// ErrMultiFieldChange is returned when a reservation update tries to change
// both the match reference and the status in one request. Each change has
// order-sensitive side effects on different match rows, so only one is
// allowed per request.
var ErrMultiFieldChange = errors.New("only one of match or status may change per update")
