package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/coder/websocket"
)

// Handler upgrades requests to websockets and registers them with the hub.
// hello (if not nil) gives the first message for each new client; every
// message read from a client is passed to onMessage.
func Handler(hub *Hub, hello func() ([]byte, error), onMessage func([]byte) error, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logger.Printf("websocket accept: %v", err)
			return
		}
		hub.Add(conn)

		if hello != nil {
			msg, err := hello()
			if err != nil {
				logger.Printf("building hello message: %v", err)
			} else if err := conn.Write(r.Context(), websocket.MessageText, msg); err != nil {
				logger.Printf("writing hello message: %v", err)
			}
		}

		go func(c *websocket.Conn) {
			defer hub.Remove(c)
			defer c.Close(websocket.StatusNormalClosure, "")
			for {
				_, data, err := c.Read(context.Background())
				if err != nil {
					return
				}
				if err := onMessage(data); err != nil {
					logger.Printf("handling message: %v", err)
				}
			}
		}(conn)
	}
}
