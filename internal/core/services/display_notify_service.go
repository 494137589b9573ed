package services

import (
	"log"
	"sync"
)

// Event names pushed over the display stream
const (
	EventTicketCalled = "ticket_called"
	EventDayRollover  = "day_rollover"
)

// DisplayEvent is a single server-sent event for display clients
type DisplayEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// CallInfo identifies the student currently being called and where to go
type CallInfo struct {
	StudentName string `json:"student_name"`
	StaffName   string `json:"staff_name"`
	Counter     string `json:"counter"`
}

// HistoryEntry is one line of the recent-calls list shown under the
// current call
type HistoryEntry struct {
	StudentName string `json:"student_name"`
	StaffName   string `json:"staff_name"`
}

// CallAnnouncement is the broadcast payload sent when a staff member calls
// a ticket
type CallAnnouncement struct {
	CurrentCall CallInfo       `json:"current_call"`
	History     []HistoryEntry `json:"history"`
}

// DisplayClient represents one connected display (TV) client
type DisplayClient struct {
	ID      string
	Channel chan DisplayEvent
}

// DisplayNotifyService fans call events out to every connected display.
// Delivery is best-effort and at-most-once: a slow client has events
// dropped rather than blocking the broadcaster, and late joiners catch up
// via the pull-based snapshot endpoint.
type DisplayNotifyService struct {
	mu      sync.RWMutex
	clients map[string]*DisplayClient
}

// NewDisplayNotifyService creates a new display notification service
func NewDisplayNotifyService() *DisplayNotifyService {
	return &DisplayNotifyService{
		clients: make(map[string]*DisplayClient),
	}
}

// Register adds a display client
func (s *DisplayNotifyService) Register(client *DisplayClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
	log.Printf("📡 Display client registered: %s | total=%d", client.ID, len(s.clients))
}

// Unregister removes a display client and closes its channel
func (s *DisplayNotifyService) Unregister(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if client, ok := s.clients[clientID]; ok {
		close(client.Channel)
		delete(s.clients, clientID)
		log.Printf("📡 Display client unregistered: %s | total=%d", clientID, len(s.clients))
	}
}

// ClientCount returns the number of connected display clients
func (s *DisplayNotifyService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// BroadcastCall pushes a call announcement to all connected displays
func (s *DisplayNotifyService) BroadcastCall(announcement CallAnnouncement) {
	s.broadcast(DisplayEvent{Event: EventTicketCalled, Data: announcement})
}

// BroadcastRollover tells displays the queue date changed so they can clear
func (s *DisplayNotifyService) BroadcastRollover(queueDate string) {
	s.broadcast(DisplayEvent{
		Event: EventDayRollover,
		Data:  map[string]string{"queue_date": queueDate},
	})
}

func (s *DisplayNotifyService) broadcast(event DisplayEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := 0
	for _, client := range s.clients {
		select {
		case client.Channel <- event:
			sent++
		default:
			// Client channel full, skip
			log.Printf("⚠️ Display channel full for client %s, skipping", client.ID)
		}
	}
	if sent > 0 {
		log.Printf("📡 Display broadcast [%s] → %d clients", event.Event, sent)
	}
}
