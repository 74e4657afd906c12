package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLine(t *testing.T) {
	ev := TicketsBookedEvent{
		StartStation: "Beijing",
		EndStation:   "Shanghai",
		SeatIDs:      []uint64{4, 5},
		Booked:       2,
		Remaining:    3,
		BookedAt:     "2025-06-01T12:00:00Z",
	}
	line := formatLine(ev)
	assert.Equal(t, "[2025-06-01T12:00:00Z] Tickets booked | route=\"Beijing -> Shanghai\" | booked=2 | remaining=3 | seats=[4,5]\n", line)
}

func TestFormatLine_NoSeats(t *testing.T) {
	line := formatLine(TicketsBookedEvent{StartStation: "A", EndStation: "B"})
	assert.Contains(t, line, "seats=[]")
}
