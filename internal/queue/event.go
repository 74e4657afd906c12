// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketsBookedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketsBookedEvent struct {
    StartStation string   `json:"start_station"`
    EndStation   string   `json:"end_station"`
    SeatIDs      []uint64 `json:"seat_ids"`
    Booked       int      `json:"booked"`
    Remaining    int      `json:"remaining"`
    BookedAt     string   `json:"booked_at"`
}
