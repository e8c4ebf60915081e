package booking

import (
	"encoding/json"
	"net/http"
	"sync"

	"talentclub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleWS subscribes a client to live seat counts for one lesson.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lessonID := ps.ByName("id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	mu.Lock()
	subscribers[lessonID] = append(subscribers[lessonID], conn)
	mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	conns := subscribers[lessonID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[lessonID] = newList
	mu.Unlock()

	conn.Close()
}

// BroadcastSeatUpdate pushes a committed seat change to every subscriber of
// that lesson, dropping connections that fail to write.
func BroadcastSeatUpdate(update models.SeatUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[update.LessonID]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[update.LessonID] = newList
}
