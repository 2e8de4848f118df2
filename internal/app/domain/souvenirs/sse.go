package souvenirs

import (
	"strconv"

	"github.com/gin-contrib/sse"
)

// sseEvent carries the log sequence number as the SSE id so reconnecting
// clients can resume with Last-Event-ID.
func sseEvent(ev Event) sse.Event {
	return sse.Event{
		Id:    strconv.Itoa(ev.Seq),
		Event: ev.Type,
		Data:  ev,
	}
}
