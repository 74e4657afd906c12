package booking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// Validation failures must be rejected before any query is issued, so these
// cases run against a store whose repository has no live database behind it.
func TestCheckAvailability_Validation(t *testing.T) {
	store := NewStore(repository.NewSeatRepo(nil))

	tests := []struct {
		name  string
		route model.Route
	}{
		{name: "missing start station", route: model.Route{EndStation: "Shanghai"}},
		{name: "missing end station", route: model.Route{StartStation: "Beijing"}},
		{name: "empty route", route: model.Route{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := store.CheckAvailability(context.Background(), tt.route)
			assert.Equal(t, StatusFail, res.Status)
			assert.Equal(t, ReasonValidation, res.Reason)
			assert.Nil(t, res.Remaining)
		})
	}
}

func TestBookSeats_Validation(t *testing.T) {
	store := NewStore(repository.NewSeatRepo(nil))
	route := model.Route{StartStation: "Beijing", EndStation: "Shanghai"}

	tests := []struct {
		name     string
		route    model.Route
		numSeats int
	}{
		{name: "missing route", route: model.Route{}, numSeats: 2},
		{name: "zero seats", route: route, numSeats: 0},
		{name: "negative seats", route: route, numSeats: -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := store.BookSeats(context.Background(), tt.route, tt.numSeats)
			assert.Equal(t, StatusFail, res.Status)
			assert.Equal(t, ReasonValidation, res.Reason)
			assert.Zero(t, res.Booked)
			assert.Empty(t, res.SeatIDs)
		})
	}
}

// newTestStore connects to the database named by TICKETS_TEST_DSN and
// ensures the seats table exists.  Tests needing a real store are skipped
// when the variable is unset so the suite stays runnable everywhere.
func newTestStore(t *testing.T) (*Store, *repository.SeatRepo) {
	t.Helper()
	dsn := os.Getenv("TICKETS_TEST_DSN")
	if dsn == "" {
		t.Skip("TICKETS_TEST_DSN not set; skipping store tests that need MySQL")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping())

	const schema = `CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		start_station VARCHAR(64) NOT NULL,
		end_station VARCHAR(64) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_route_status (start_station, end_station, status)
	)`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	repo := repository.NewSeatRepo(db)
	return NewStore(repo), repo
}

// testRoute derives a route unique to the running test so cases never see
// each other's inventory.
func testRoute(t *testing.T) model.Route {
	return model.Route{
		StartStation: fmt.Sprintf("Beijing-%s", t.Name()),
		EndStation:   "Shanghai",
	}
}

func available(t *testing.T, repo *repository.SeatRepo, route model.Route) int {
	t.Helper()
	n, err := repo.CountAvailable(context.Background(), route)
	require.NoError(t, err)
	return n
}

func TestCheckAvailability_UnknownRouteIsZero(t *testing.T) {
	store, _ := newTestStore(t)
	res := store.CheckAvailability(context.Background(), testRoute(t))
	require.Equal(t, StatusSuccess, res.Status)
	require.NotNil(t, res.Remaining)
	assert.Zero(t, *res.Remaining)
}

func TestBookSeats_DeductsExactly(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()
	route := testRoute(t)
	require.NoError(t, repo.CreateBulk(ctx, route, 5))

	res := store.BookSeats(ctx, route, 2)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, res.Booked)
	assert.Len(t, res.SeatIDs, 2)
	assert.Equal(t, 3, available(t, repo, route))

	// Booked seats are really BOOKED, not merely uncounted.
	seat, err := repo.GetByID(ctx, res.SeatIDs[0])
	require.NoError(t, err)
	assert.Equal(t, model.SeatBooked, seat.Status)
}

func TestBookSeats_InsufficientLeavesInventoryUntouched(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()
	route := testRoute(t)
	require.NoError(t, repo.CreateBulk(ctx, route, 1))

	res := store.BookSeats(ctx, route, 2)
	require.Equal(t, StatusFail, res.Status)
	assert.Equal(t, ReasonInsufficient, res.Reason)
	assert.Zero(t, res.Booked)
	assert.Contains(t, res.Message, "only 1 available")
	assert.Equal(t, 1, available(t, repo, route))
}

// Repeating an identical booking is not idempotent: each success deducts
// again.  This is the contract, not a bug.
func TestBookSeats_RepeatDeductsAgain(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()
	route := testRoute(t)
	require.NoError(t, repo.CreateBulk(ctx, route, 5))

	first := store.BookSeats(ctx, route, 2)
	require.Equal(t, StatusSuccess, first.Status)
	second := store.BookSeats(ctx, route, 2)
	require.Equal(t, StatusSuccess, second.Status)

	assert.NotElementsMatch(t, first.SeatIDs, second.SeatIDs)
	assert.Equal(t, 1, available(t, repo, route))
}

// Concurrent bookings over the same route must never oversell: row locks
// serialise the critical section, so the sum of successful bookings cannot
// exceed the seats that were available when contention began.
func TestBookSeats_ConcurrentNoOversell(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()
	route := testRoute(t)

	const initial = 10
	const callers = 5
	const perCall = 3 // 5*3 = 15 requested > 10 available
	require.NoError(t, repo.CreateBulk(ctx, route, initial))

	results := make([]BookResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.BookSeats(ctx, route, perCall)
		}(i)
	}
	wg.Wait()

	totalBooked := 0
	for _, res := range results {
		if res.Status == StatusSuccess {
			require.Equal(t, perCall, res.Booked)
			totalBooked += res.Booked
		} else {
			require.Equal(t, ReasonInsufficient, res.Reason)
			require.Zero(t, res.Booked)
		}
	}
	assert.LessOrEqual(t, totalBooked, initial)
	assert.Equal(t, initial-totalBooked, available(t, repo, route))
}
