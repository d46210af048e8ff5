// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for release notifications.
package queue

// MovieReleasingEvent is published once per movie whose release date is
// today. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type MovieReleasingEvent struct {
	MovieID     uint64   `json:"movie_id"`
	UserID      uint64   `json:"user_id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
}
