package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-ticket-reservation/internal/booking"
    "github.com/iliyamo/railway-ticket-reservation/internal/model"
)

// Tool names accepted by the structured-call endpoint.  The upstream intent
// resolver maps free text onto these; this service only validates and
// executes the structured form.
const (
    ToolCheckAvailability = "check_availability"
    ToolBookSeats         = "book_seats"
)

// ToolCallRequest is the inbound contract consumed from the intent
// resolver: a tool name plus its arguments.
type ToolCallRequest struct {
    Tool string   `json:"tool"`
    Args ToolArgs `json:"args"`
}

// ToolArgs carries the arguments of both tools.  NumSeats is only used by
// book_seats and stays a pointer so "absent" is distinguishable from zero.
type ToolArgs struct {
    StartStation string `json:"start_station"`
    EndStation   string `json:"end_station"`
    NumSeats     *int   `json:"num_seats"`
}

// HandleToolCall handles POST /v1/tools/call.  Well-formed calls always
// answer 200 with the outcome object of the invoked tool, including failed
// outcomes; the caller inspects the status field.  Malformed bodies and
// unknown tool names are the only 400 responses.
func (h *TicketHandler) HandleToolCall(c echo.Context) error {
    var req ToolCallRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    route := model.Route{StartStation: req.Args.StartStation, EndStation: req.Args.EndStation}
    ctx := c.Request().Context()

    switch req.Tool {
    case ToolCheckAvailability:
        return c.JSON(http.StatusOK, h.Store.CheckAvailability(ctx, route))
    case ToolBookSeats:
        numSeats := 0
        if req.Args.NumSeats != nil {
            numSeats = *req.Args.NumSeats
        }
        res := h.Store.BookSeats(ctx, route, numSeats)
        if res.Status == booking.StatusSuccess {
            h.publishBooked(ctx, route, res)
        }
        return c.JSON(http.StatusOK, res)
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tool"})
    }
}
