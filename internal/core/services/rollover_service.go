package services

import (
	"context"
	"log"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// RolloverService runs the midnight queue rollover: it logs the previous
// day's totals and tells displays the queue date changed so they clear
// stale calls.
type RolloverService struct {
	ticketRepo repositories.TicketRepository
	notify     *DisplayNotifyService
	cron       *cron.Cron
}

// NewRolloverService creates a new rollover service
func NewRolloverService(ticketRepo repositories.TicketRepository, notify *DisplayNotifyService) *RolloverService {
	return &RolloverService{
		ticketRepo: ticketRepo,
		notify:     notify,
		cron:       cron.New(),
	}
}

// Start schedules the daily rollover at midnight
func (s *RolloverService) Start() {
	if _, err := s.cron.AddFunc("0 0 * * *", s.runRollover); err != nil {
		log.Printf("❌ Failed to schedule rollover job: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 RolloverService started (daily at 00:00)")
}

// Stop stops the cron scheduler
func (s *RolloverService) Stop() {
	s.cron.Stop()
	log.Println("🛑 RolloverService stopped")
}

func (s *RolloverService) runRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := QueueDate(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	called, err := s.ticketRepo.CountByStatusAndDate(ctx, models.TicketStatusCalled, yesterday)
	if err != nil {
		log.Printf("⚠️ Rollover: failed to count called tickets: %v", err)
	}
	leftover, err := s.ticketRepo.CountByStatusAndDate(ctx, models.TicketStatusWaiting, yesterday)
	if err != nil {
		log.Printf("⚠️ Rollover: failed to count leftover tickets: %v", err)
	}

	log.Printf("📅 Queue rollover → %s | yesterday: %d called, %d never called",
		today.Format("2006-01-02"), called, leftover)

	s.notify.BroadcastRollover(today.Format("2006-01-02"))
}
