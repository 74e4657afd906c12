// Package repository defines data access for the seat inventory along with
// sentinel error values shared with higher layers.  Handlers and the booking
// store use errors.Is against these values to distinguish failure scenarios
// without inspecting driver-specific errors.
package repository

import "errors"

// ErrInvalidRoute is returned when a route is missing one or both station
// identifiers.  Validation happens before any query is issued.
var ErrInvalidRoute = errors.New("invalid route")

// ErrInvalidSeatCount is returned when a booking request asks for zero or a
// negative number of seats.
var ErrInvalidSeatCount = errors.New("invalid seat count")
