// Package booking implements the reservation store: an availability lookup
// and a transactional seat-booking operation over the seats table.  All
// failures are folded into structured outcomes so callers never observe a
// raw driver error or a half-committed state.
package booking

import (
	"context"
	"fmt"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// Outcome status values shared by both operations.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// FailReason categorises a failed outcome so transports can map it to a
// protocol-specific code without parsing the message text.
type FailReason int

const (
	ReasonNone         FailReason = iota // outcome succeeded
	ReasonValidation                     // rejected before touching the store
	ReasonInsufficient                   // fewer free seats than requested
	ReasonStore                          // transaction or connectivity failure
)

// CheckResult is the outcome of an availability lookup.  Remaining is nil
// only when the lookup itself failed.
type CheckResult struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Remaining *int       `json:"remaining"`
	Reason    FailReason `json:"-"`
}

// BookResult is the outcome of a booking attempt.  Booked is zero on any
// failure.  SeatIDs lists the seats that were committed, for event
// publication; it is not part of the wire contract.
type BookResult struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Booked  int        `json:"booked"`
	SeatIDs []uint64   `json:"-"`
	Reason  FailReason `json:"-"`
}

// Store executes reservation operations against the seat inventory.
type Store struct {
	seats *repository.SeatRepo
}

// NewStore returns a Store bound to the given seat repository.
func NewStore(seats *repository.SeatRepo) *Store {
	if seats == nil {
		panic("nil repository passed to NewStore")
	}
	return &Store{seats: seats}
}

// CheckAvailability counts AVAILABLE seats on the route.  The count is a
// plain read with no locks, so it can run concurrently with any number of
// bookings; zero matching seats is a successful outcome.
func (s *Store) CheckAvailability(ctx context.Context, route model.Route) CheckResult {
	if !route.Valid() {
		return CheckResult{
			Status:  StatusFail,
			Message: "start_station and end_station are required",
			Reason:  ReasonValidation,
		}
	}
	n, err := s.seats.CountAvailable(ctx, route)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("availability lookup failed: %v", err),
			Reason:  ReasonStore,
		}
	}
	return CheckResult{
		Status:    StatusSuccess,
		Message:   "query succeeded",
		Remaining: &n,
	}
}

// BookSeats books numSeats seats on the route atomically.  The protocol is
// query-lock-update-commit: candidate rows are selected FOR UPDATE inside a
// transaction, so two concurrent bookings can never commit the same seat.
// When fewer rows lock than requested the transaction rolls back untouched
// and the outcome reports the count that was actually available.  Repeating
// an identical call after a success deducts again; there is no idempotency.
func (s *Store) BookSeats(ctx context.Context, route model.Route, numSeats int) BookResult {
	if !route.Valid() {
		return BookResult{
			Status:  StatusFail,
			Message: "start_station and end_station are required",
			Reason:  ReasonValidation,
		}
	}
	if numSeats <= 0 {
		return BookResult{
			Status:  StatusFail,
			Message: "num_seats must be a positive integer",
			Reason:  ReasonValidation,
		}
	}

	tx, err := s.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return BookResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("booking failed: %v", err),
			Reason:  ReasonStore,
		}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock up to numSeats candidate rows.  Because the query is capped at
	// numSeats, a short result is exactly the number of free seats left.
	ids, err := s.seats.LockAvailableTx(ctx, tx, route, numSeats)
	if err != nil {
		return BookResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("booking failed: %v", err),
			Reason:  ReasonStore,
		}
	}
	if len(ids) < numSeats {
		// Deferred rollback releases the locks with no mutation.
		return BookResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("insufficient availability: only %d available", len(ids)),
			Reason:  ReasonInsufficient,
		}
	}

	if err := s.seats.MarkBookedTx(ctx, tx, ids); err != nil {
		return BookResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("booking failed: %v", err),
			Reason:  ReasonStore,
		}
	}
	if err := tx.Commit(); err != nil {
		return BookResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("booking failed: %v", err),
			Reason:  ReasonStore,
		}
	}
	committed = true
	return BookResult{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("booked %d seats", numSeats),
		Booked:  numSeats,
		SeatIDs: ids,
	}
}
