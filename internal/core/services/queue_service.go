package services

import (
	"context"
	"log"
	"strings"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/core/domain"
)

// HistoryLimit is how many recent calls the display shows
const HistoryLimit = 5

// QueueService is the single authority over ticket state transitions. It
// wraps the ticket store and staff directory with the business rules: one
// ticket per student per day, per-staff FIFO, and owner-only calls.
type QueueService struct {
	ticketRepo repositories.TicketRepository
	staffRepo  repositories.StaffRepository
	notify     *DisplayNotifyService
}

// NewQueueService creates a new queue service
func NewQueueService(ticketRepo repositories.TicketRepository, staffRepo repositories.StaffRepository, notify *DisplayNotifyService) *QueueService {
	return &QueueService{
		ticketRepo: ticketRepo,
		staffRepo:  staffRepo,
		notify:     notify,
	}
}

// QueueDate returns the calendar day used for the daily-limit rule:
// midnight of t's day in t's own location. Truncate would bucket by UTC
// midnight and split or merge local days on non-UTC servers.
func QueueDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RequestTicket creates a waiting ticket for a student.
// A second request by the same student on the same calendar day fails with
// domain.ErrDuplicateTicket regardless of the target staff member.
func (s *QueueService) RequestTicket(ctx context.Context, studentName string, staffID uint) (*models.Ticket, error) {
	studentName = strings.TrimSpace(studentName)
	if studentName == "" {
		return nil, domain.ErrEmptyStudentName
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		StudentName: studentName,
		TicketDate:  QueueDate(time.Now()),
		StaffID:     staff.ID,
		Status:      models.TicketStatusWaiting,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.Staff = *staff

	log.Printf("✅ Ticket #%d created: %s → %s", ticket.ID, ticket.StudentName, staff.Name)
	return ticket, nil
}

// ListWaiting returns the waiting FIFO for one staff member, oldest first
func (s *QueueService) ListWaiting(ctx context.Context, staffID uint) ([]models.Ticket, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}
	return s.ticketRepo.ListWaitingByStaff(ctx, staffID)
}

// CallTicket transitions a waiting ticket to CALLED on behalf of the given
// identity. The ticket must belong to the calling staff member. Re-calling
// an already-called ticket returns the stored record unchanged and does not
// broadcast again, so each call event reaches the display at most once.
func (s *QueueService) CallTicket(ctx context.Context, ticketID uint, identity domain.Identity) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.StaffID != identity.StaffID {
		return nil, domain.ErrNotTicketOwner
	}

	ticket, transitioned, err := s.ticketRepo.MarkCalled(ctx, ticketID, identity.Counter, identity.StaffID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return ticket, nil
	}

	log.Printf("✅ Ticket #%d called: %s → counter %s", ticket.ID, ticket.StudentName, identity.Counter)
	s.broadcastCall(ctx, ticket)
	return ticket, nil
}

// broadcastCall assembles the announcement payload and hands it to the
// display hub. Hub delivery never blocks, so the caller's response path is
// unaffected by slow displays.
func (s *QueueService) broadcastCall(ctx context.Context, ticket *models.Ticket) {
	history, err := s.ticketRepo.RecentCalled(ctx, HistoryLimit)
	if err != nil {
		log.Printf("⚠️ Failed to load call history for broadcast: %v", err)
		history = []models.Ticket{*ticket}
	}

	s.notify.BroadcastCall(CallAnnouncement{
		CurrentCall: CallInfo{
			StudentName: ticket.StudentName,
			StaffName:   ticket.Staff.Name,
			Counter:     ticket.CounterLabel,
		},
		History: toHistoryEntries(history),
	})
}

// DisplaySnapshot is the pull-based state for displays: what the TV shows
// right now. Late-joining clients fetch this once, then follow the event
// stream.
type DisplaySnapshot struct {
	CurrentCall *CallInfo      `json:"current_call"`
	History     []HistoryEntry `json:"history"`
}

// Snapshot returns the current display state: the latest call plus the
// bounded recent-history list
func (s *QueueService) Snapshot(ctx context.Context) (*DisplaySnapshot, error) {
	history, err := s.ticketRepo.RecentCalled(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}

	snapshot := &DisplaySnapshot{
		History: toHistoryEntries(history),
	}
	if len(history) > 0 {
		latest := history[0]
		snapshot.CurrentCall = &CallInfo{
			StudentName: latest.StudentName,
			StaffName:   latest.Staff.Name,
			Counter:     latest.CounterLabel,
		}
	}
	return snapshot, nil
}

// RecentHistory returns called tickets ordered by called_at descending
func (s *QueueService) RecentHistory(ctx context.Context, limit int) ([]models.Ticket, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	return s.ticketRepo.RecentCalled(ctx, limit)
}

// DashboardResponse is the admin overview of today's queue
type DashboardResponse struct {
	QueueDate    string                         `json:"queue_date"`
	TotalWaiting int64                          `json:"total_waiting"`
	TotalCalled  int64                          `json:"total_called"`
	Staff        []repositories.StaffQueueCount `json:"staff"`
}

// Dashboard returns per-staff waiting counts plus today's totals
func (s *QueueService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	counts, err := s.ticketRepo.WaitingCountsByStaff(ctx)
	if err != nil {
		return nil, err
	}

	today := QueueDate(time.Now())
	var totalWaiting int64
	for _, c := range counts {
		totalWaiting += c.Waiting
	}
	totalCalled, err := s.ticketRepo.CountByStatusAndDate(ctx, models.TicketStatusCalled, today)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		QueueDate:    today.Format("2006-01-02"),
		TotalWaiting: totalWaiting,
		TotalCalled:  totalCalled,
		Staff:        counts,
	}, nil
}

func toHistoryEntries(tickets []models.Ticket) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(tickets))
	for _, t := range tickets {
		entries = append(entries, HistoryEntry{
			StudentName: t.StudentName,
			StaffName:   t.Staff.Name,
		})
	}
	return entries
}
