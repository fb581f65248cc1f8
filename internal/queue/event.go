// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a player successfully books a
// spot in a match. It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserName      string `json:"user_name"`
	MatchID       uint64 `json:"match_id"`
	StadiumName   string `json:"stadium_name"`
	FieldName     string `json:"field_name"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	Fee           uint32 `json:"fee"`
	SpotsLeft     uint32 `json:"spots_left"`
	ConfirmedAt   string `json:"confirmed_at"`
}
