package handler

import (
    "context"        // context passed through to the store and publisher
    "errors"         // errors.Is comparisons against repository sentinels
    "log"            // log reports non-fatal publish failures
    "net/http"       // HTTP status codes
    "time"           // event timestamps

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-ticket-reservation/internal/booking"
    "github.com/iliyamo/railway-ticket-reservation/internal/model"
    "github.com/iliyamo/railway-ticket-reservation/internal/queue"
    "github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// SeatStore is the reservation store surface the handlers depend on.  It is
// satisfied by *booking.Store and by test doubles.
type SeatStore interface {
    CheckAvailability(ctx context.Context, route model.Route) booking.CheckResult
    BookSeats(ctx context.Context, route model.Route, numSeats int) booking.BookResult
}

// SeatProvisioner seeds inventory for a route.  Satisfied by
// *repository.SeatRepo.
type SeatProvisioner interface {
    CreateBulk(ctx context.Context, route model.Route, count int) error
}

// TicketHandler exposes the reservation store over HTTP.  Publish is called
// after a successful booking; a nil Publish disables event publication and
// publish failures never affect the response.
type TicketHandler struct {
    Store   SeatStore
    Seats   SeatProvisioner
    Publish func(ctx context.Context, event queue.TicketsBookedEvent) error
}

// NewTicketHandler constructs a TicketHandler.  Store must be non-nil.
func NewTicketHandler(store SeatStore, seats SeatProvisioner, publish func(ctx context.Context, event queue.TicketsBookedEvent) error) *TicketHandler {
    if store == nil {
        panic("nil store passed to NewTicketHandler")
    }
    return &TicketHandler{Store: store, Seats: seats, Publish: publish}
}

// httpStatusFor maps an outcome reason to an HTTP status code.  The outcome
// body itself is identical regardless of transport.
func httpStatusFor(reason booking.FailReason) int {
    switch reason {
    case booking.ReasonValidation:
        return http.StatusBadRequest
    case booking.ReasonInsufficient:
        return http.StatusConflict
    case booking.ReasonStore:
        return http.StatusInternalServerError
    default:
        return http.StatusOK
    }
}

// CheckAvailability handles GET /v1/tickets/availability.  The route comes
// from the start_station and end_station query parameters.  The response is
// the outcome object {status, message, remaining}.
func (h *TicketHandler) CheckAvailability(c echo.Context) error {
    route := model.Route{
        StartStation: c.QueryParam("start_station"),
        EndStation:   c.QueryParam("end_station"),
    }
    res := h.Store.CheckAvailability(c.Request().Context(), route)
    return c.JSON(httpStatusFor(res.Reason), res)
}

// bookRequest is the JSON body accepted by the booking endpoint.  NumSeats
// is a pointer so an absent field is distinguishable from zero; both are
// rejected by the store.
type bookRequest struct {
    StartStation string `json:"start_station"`
    EndStation   string `json:"end_station"`
    NumSeats     *int   `json:"num_seats"`
}

// BookSeats handles POST /v1/tickets/book.  It runs the transactional
// booking and, on success, publishes a tickets.booked event.  The response
// is the outcome object {status, message, booked}.
func (h *TicketHandler) BookSeats(c echo.Context) error {
    var body bookRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    route := model.Route{StartStation: body.StartStation, EndStation: body.EndStation}
    numSeats := 0
    if body.NumSeats != nil {
        numSeats = *body.NumSeats
    }
    res := h.Store.BookSeats(c.Request().Context(), route, numSeats)
    if res.Status == booking.StatusSuccess {
        h.publishBooked(c.Request().Context(), route, res)
    }
    return c.JSON(httpStatusFor(res.Reason), res)
}

// publishBooked emits the tickets.booked event for a committed booking.
// Failures are logged and dropped; the booking already committed.
func (h *TicketHandler) publishBooked(ctx context.Context, route model.Route, res booking.BookResult) {
    if h.Publish == nil {
        return
    }
    remaining := 0
    if check := h.Store.CheckAvailability(ctx, route); check.Remaining != nil {
        remaining = *check.Remaining
    }
    ev := queue.TicketsBookedEvent{
        StartStation: route.StartStation,
        EndStation:   route.EndStation,
        SeatIDs:      res.SeatIDs,
        Booked:       res.Booked,
        Remaining:    remaining,
        BookedAt:     time.Now().UTC().Format(time.RFC3339),
    }
    if err := h.Publish(ctx, ev); err != nil {
        log.Printf("tickets: publish booked event failed: %v", err)
    }
}

// provisionRequest is the JSON body accepted by the provisioning endpoint.
type provisionRequest struct {
    StartStation string `json:"start_station"`
    EndStation   string `json:"end_station"`
    Count        int    `json:"count"`
}

// ProvisionSeats handles POST /v1/routes/seats.  It bulk-inserts AVAILABLE
// seats for a route so inventory exists before any booking traffic.
func (h *TicketHandler) ProvisionSeats(c echo.Context) error {
    if h.Seats == nil {
        return c.JSON(http.StatusNotImplemented, echo.Map{"error": "provisioning disabled"})
    }
    var body provisionRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    route := model.Route{StartStation: body.StartStation, EndStation: body.EndStation}
    if !route.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_station and end_station are required"})
    }
    if body.Count <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be a positive integer"})
    }
    if err := h.Seats.CreateBulk(c.Request().Context(), route, body.Count); err != nil {
        if errors.Is(err, repository.ErrInvalidRoute) || errors.Is(err, repository.ErrInvalidSeatCount) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"created": body.Count})
}
