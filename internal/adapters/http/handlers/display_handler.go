package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fila-escolar/internal/core/services"
	"fila-escolar/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DisplayHandler handles the public TV display endpoints
type DisplayHandler struct {
	queueService  *services.QueueService
	notifyService *services.DisplayNotifyService
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(queueService *services.QueueService, notifyService *services.DisplayNotifyService) *DisplayHandler {
	return &DisplayHandler{
		queueService:  queueService,
		notifyService: notifyService,
	}
}

// GetSnapshot returns the current display state. Late-joining displays call
// this once before following the event stream, since the push channel does
// not replay past events.
// @Summary Display snapshot
// @Description Returns the current call and the recent-history list for the TV display.
// @Tags Display
// @Produce json
// @Success 200 {object} response.Response
// @Router /display [get]
func (h *DisplayHandler) GetSnapshot(c *fiber.Ctx) error {
	snapshot, err := h.queueService.Snapshot(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load display snapshot")
	}
	return response.Success(c, "Display snapshot retrieved", snapshot)
}

// Events streams call announcements to the display over SSE
// @Summary Display event stream
// @Description Server-sent events with call announcements and rollover notices.
// @Tags Display
// @Produce text/event-stream
// @Success 200
// @Router /display/events [get]
func (h *DisplayHandler) Events(c *fiber.Ctx) error {
	clientID := fmt.Sprintf("tv-%s", uuid.NewString())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.DisplayClient{
			ID:      clientID,
			Channel: make(chan services.DisplayEvent, 50),
		}

		h.notifyService.Register(client)
		defer h.notifyService.Unregister(clientID)

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSSEEvent(w, event)
				if err := w.Flush(); err != nil {
					log.Printf("📡 Display client disconnected: %s", clientID)
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Display client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeSSEEvent writes one formatted SSE event to the stream
func writeSSEEvent(w *bufio.Writer, event services.DisplayEvent) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		log.Printf("⚠️ Failed to marshal display event %s: %v", event.Event, err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
}
