package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-ticket-reservation/internal/booking"
	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

func callTool(t *testing.T, h *TicketHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/call", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return doRequest(t, h.HandleToolCall, req)
}

func TestHandleToolCall_CheckAvailability(t *testing.T) {
	store := &MockSeatStore{
		CheckAvailabilityFunc: func(ctx context.Context, route model.Route) booking.CheckResult {
			assert.Equal(t, "Beijing", route.StartStation)
			assert.Equal(t, "Shanghai", route.EndStation)
			n := 5
			return booking.CheckResult{Status: booking.StatusSuccess, Message: "query succeeded", Remaining: &n}
		},
	}
	h := NewTicketHandler(store, nil, nil)

	rec := callTool(t, h, `{"tool":"check_availability","args":{"start_station":"Beijing","end_station":"Shanghai"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var res booking.CheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, booking.StatusSuccess, res.Status)
	require.NotNil(t, res.Remaining)
	assert.Equal(t, 5, *res.Remaining)
}

func TestHandleToolCall_BookSeats(t *testing.T) {
	store := &MockSeatStore{
		BookSeatsFunc: func(ctx context.Context, route model.Route, numSeats int) booking.BookResult {
			assert.Equal(t, 2, numSeats)
			return booking.BookResult{Status: booking.StatusSuccess, Message: "booked 2 seats", Booked: 2}
		},
	}
	h := NewTicketHandler(store, nil, nil)

	rec := callTool(t, h, `{"tool":"book_seats","args":{"start_station":"Beijing","end_station":"Shanghai","num_seats":2}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var res booking.BookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, booking.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.Booked)
}

// Failed outcomes of a well-formed call still answer 200; the caller reads
// the status field, mirroring the tool-result contract.
func TestHandleToolCall_FailedOutcomeStays200(t *testing.T) {
	store := &MockSeatStore{
		BookSeatsFunc: func(ctx context.Context, route model.Route, numSeats int) booking.BookResult {
			return booking.BookResult{Status: booking.StatusFail, Message: "insufficient availability: only 1 available", Reason: booking.ReasonInsufficient}
		},
	}
	h := NewTicketHandler(store, nil, nil)

	rec := callTool(t, h, `{"tool":"book_seats","args":{"start_station":"Beijing","end_station":"Shanghai","num_seats":2}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var res booking.BookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, booking.StatusFail, res.Status)
	assert.Zero(t, res.Booked)
}

func TestHandleToolCall_MissingNumSeats(t *testing.T) {
	store := &MockSeatStore{
		BookSeatsFunc: func(ctx context.Context, route model.Route, numSeats int) booking.BookResult {
			assert.Zero(t, numSeats)
			return booking.BookResult{Status: booking.StatusFail, Message: "num_seats must be a positive integer", Reason: booking.ReasonValidation}
		},
	}
	h := NewTicketHandler(store, nil, nil)

	rec := callTool(t, h, `{"tool":"book_seats","args":{"start_station":"Beijing","end_station":"Shanghai"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var res booking.BookResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, booking.StatusFail, res.Status)
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	h := NewTicketHandler(&MockSeatStore{}, nil, nil)

	rec := callTool(t, h, `{"tool":"cancel_booking","args":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = callTool(t, h, `{"args":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
