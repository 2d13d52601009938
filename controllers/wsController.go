package controllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var clients = make(map[*websocket.Conn]bool)
var mu sync.Mutex

// HandleWebSocket registers a dashboard client. The connection is held
// open until the client goes away.
func HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			pipelineLog.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		mu.Lock()
		clients[conn] = true
		mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				mu.Lock()
				delete(clients, conn)
				mu.Unlock()
				break
			}
		}
	}
}

type wsMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// BroadcastOrderEvent pushes an order lifecycle event to every connected
// dashboard client. Dead connections are dropped on write failure.
func BroadcastOrderEvent(event string, payload interface{}) {
	messageBytes, err := json.Marshal(wsMessage{Event: event, Payload: payload})
	if err != nil {
		pipelineLog.Error("failed to marshal ws message", "event", event, "error", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
			client.Close()
			delete(clients, client)
		}
	}
}
