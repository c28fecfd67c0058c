package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/events"
)

type EventsController struct {
	Hub      *events.Hub
	upgrader websocket.Upgrader
}

// NewEventsController accepts websocket clients from the origins the CORS
// policy allows. Clients without an Origin header (non-browser) are
// accepted.
func NewEventsController(hub *events.Hub, cors config.CORSConfig) *EventsController {
	return &EventsController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || cors.AllowsOrigin(origin)
			},
		},
	}
}

// StreamTables -> GET /ws/tables. Pushes table_create, table_update and
// table_delete events until the client disconnects.
func (ec *EventsController) StreamTables(c *gin.Context) {
	ws, err := ec.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	ec.Hub.Register(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	ec.Hub.Unregister(ws)
}
