package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"      // strings joins placeholder lists

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// SeatRepo provides methods to work with seats in the database.  Reads go
// through the pool directly; mutations are exposed as Tx variants that
// participate in a caller-owned transaction so the booking protocol controls
// the commit boundary.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple statements.  Use this method to obtain a
// *sql.DB when you need fine-grained transaction control.
func (r *SeatRepo) DB() *sql.DB {
	return r.db
}

// CountAvailable returns the number of AVAILABLE seats on the given route.
// The read takes no locks, so it never blocks behind an in-flight booking.
// A route with no matching seats yields zero, not an error.
func (r *SeatRepo) CountAvailable(ctx context.Context, route model.Route) (int, error) {
	const q = `SELECT COUNT(*) FROM seats
	           WHERE start_station = ? AND end_station = ? AND status = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, route.StartStation, route.EndStation, model.SeatAvailable).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// LockAvailableTx selects up to limit AVAILABLE seat IDs on the route and
// acquires an exclusive row lock on each for the duration of the
// transaction.  Concurrent booking transactions block on the same rows
// until commit or rollback; non-locking availability reads are unaffected.
// Fewer than limit IDs are returned when the route has fewer free seats.
func (r *SeatRepo) LockAvailableTx(ctx context.Context, tx *sql.Tx, route model.Route, limit int) ([]uint64, error) {
	const q = `SELECT id FROM seats
	           WHERE start_station = ? AND end_station = ? AND status = ?
	           ORDER BY id
	           LIMIT ?
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, route.StartStation, route.EndStation, model.SeatAvailable, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkBookedTx flips the given seats to BOOKED inside the caller's
// transaction.  The IN list is built from placeholders; seat IDs are never
// interpolated into the statement text.  Passing an empty slice has no
// effect and returns nil.
func (r *SeatRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, model.SeatBooked)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `UPDATE seats SET status = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// Locked rows cannot change underneath us, so a short update means the
	// transaction state is inconsistent and must not commit.
	if n, err := res.RowsAffected(); err == nil && n != int64(len(ids)) {
		return sql.ErrNoRows
	}
	return nil
}

// CreateBulk inserts count AVAILABLE seats for a route in a single
// statement.  It is used by the provisioning endpoint to seed inventory.
func (r *SeatRepo) CreateBulk(ctx context.Context, route model.Route, count int) error {
	if !route.Valid() {
		return ErrInvalidRoute
	}
	if count <= 0 {
		return ErrInvalidSeatCount
	}
	query := `INSERT INTO seats (start_station, end_station, status) VALUES `
	args := make([]interface{}, 0, count*3)
	for i := 0; i < count; i++ {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, route.StartStation, route.EndStation, model.SeatAvailable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a seat by its id.  sql.ErrNoRows is passed through when
// the seat does not exist.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, start_station, end_station, status, created_at, updated_at
	           FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.StartStation, &s.EndStation, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
