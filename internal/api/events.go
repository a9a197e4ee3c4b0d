package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	eventBuffer       = 64
	eventWriteTimeout = 2 * time.Second
)

// handleEvents streams every wm.Event as one JSON text message until the
// peer goes away or the loop stops.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no event after it is lost.
	events, cancel := s.ctrl.Subscribe(eventBuffer)
	defer cancel()

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("API: websocket accept: %v", err)
		return
	}
	log.Printf("API: events connect %s", r.RemoteAddr)
	defer log.Printf("API: events disconnect %s", r.RemoteAddr)
	defer c.Close(websocket.StatusInternalError, "")

	// Nothing is read from the peer; CloseRead handles control frames and
	// cancels ctx when the peer closes.
	ctx := c.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				c.Close(websocket.StatusGoingAway, "window manager stopped")
				return
			}
			if err := writeEvent(ctx, c, ev); err != nil {
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, c *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, v)
}
