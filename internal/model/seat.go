package model

import "time"

// Seat status values.  A seat only ever moves from AVAILABLE to BOOKED;
// there is no cancellation path that returns a booked seat to inventory.
const (
    SeatAvailable = "AVAILABLE" // seats.status when the seat can be sold
    SeatBooked    = "BOOKED"    // seats.status once a booking has committed
)

// Route identifies a bookable segment by its endpoints.  Station names are
// opaque, case-sensitive strings compared for exact equality.
//
// Fields:
//  StartStation – departure station.
//  EndStation   – arrival station.
type Route struct {
    StartStation string `json:"start_station"` // seats.start_station
    EndStation   string `json:"end_station"`   // seats.end_station
}

// Valid reports whether both endpoints are non-empty.
func (r Route) Valid() bool {
    return r.StartStation != "" && r.EndStation != ""
}

// Seat describes a single bookable unit on a route.  Seats are
// pre-provisioned for a route and mutated only by the booking
// transaction.
//
// Fields:
//  ID           – primary key identifier.
//  StartStation – departure station of the segment.
//  EndStation   – arrival station of the segment.
//  Status       – AVAILABLE or BOOKED.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Seat struct {
    ID           uint64    // seats.id
    StartStation string    // seats.start_station
    EndStation   string    // seats.end_station
    Status       string    // seats.status
    CreatedAt    time.Time // seats.created_at
    UpdatedAt    time.Time // seats.updated_at
}
