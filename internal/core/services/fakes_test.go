package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/core/domain"
)

// In-memory repository fakes implementing the repository interfaces. They
// mirror the store contract: daily uniqueness on create, idempotent
// MarkCalled, FIFO waiting order, called_at-descending history.

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uint]*models.Ticket
	nextID  uint
	clock   time.Time
	staff   *fakeStaffRepo
}

func newFakeTicketRepo(staff *fakeStaffRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[uint]*models.Ticket),
		nextID:  1,
		clock:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		staff:   staff,
	}
}

func (r *fakeTicketRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeTicketRepo) withStaff(t models.Ticket) models.Ticket {
	if r.staff != nil {
		if s, ok := r.staff.staff[t.StaffID]; ok {
			t.Staff = *s
		}
	}
	return t
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tickets {
		if existing.StudentName == ticket.StudentName && existing.TicketDate.Equal(ticket.TicketDate) {
			return domain.ErrDuplicateTicket
		}
	}
	ticket.ID = r.nextID
	r.nextID++
	ticket.CreatedAt = r.tick()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	copied := r.withStaff(*ticket)
	return &copied, nil
}

func (r *fakeTicketRepo) ListWaitingByStaff(ctx context.Context, staffID uint) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if t.StaffID == staffID && t.Status == models.TicketStatusWaiting {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTicketRepo) MarkCalled(ctx context.Context, id uint, counterLabel string, calledBy uint) (*models.Ticket, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, false, domain.ErrTicketNotFound
	}
	if ticket.Status == models.TicketStatusCalled {
		copied := r.withStaff(*ticket)
		return &copied, false, nil
	}
	now := r.tick()
	ticket.Status = models.TicketStatusCalled
	ticket.CalledAt = &now
	ticket.CounterLabel = counterLabel
	ticket.CalledBy = &calledBy
	copied := r.withStaff(*ticket)
	return &copied, true, nil
}

func (r *fakeTicketRepo) RecentCalled(ctx context.Context, limit int) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if t.Status == models.TicketStatusCalled {
			out = append(out, r.withStaff(*t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CalledAt.After(*out[j].CalledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByStaff(ctx context.Context, staffID uint, offset, limit int) ([]models.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Ticket
	for _, t := range r.tickets {
		if t.StaffID == staffID {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeTicketRepo) CountByStatusAndDate(ctx context.Context, status string, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.tickets {
		if t.Status == status && t.TicketDate.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) WaitingCountsByStaff(ctx context.Context) ([]repositories.StaffQueueCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[uint]int64)
	for _, t := range r.tickets {
		if t.Status == models.TicketStatusWaiting {
			counts[t.StaffID]++
		}
	}
	var out []repositories.StaffQueueCount
	if r.staff != nil {
		for _, s := range r.staff.list() {
			out = append(out, repositories.StaffQueueCount{
				StaffID: s.ID,
				Name:    s.Name,
				Subject: s.Subject,
				Waiting: counts[s.ID],
			})
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) deleteByStaff(staffID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tickets {
		if t.StaffID == staffID {
			delete(r.tickets, id)
		}
	}
}

type fakeStaffRepo struct {
	mu      sync.Mutex
	staff   map[uint]*models.Staff
	nextID  uint
	tickets *fakeTicketRepo
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		staff:  make(map[uint]*models.Staff),
		nextID: 1,
	}
}

func (r *fakeStaffRepo) list() []models.Staff {
	var out []models.Staff
	for _, s := range r.staff {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff.ID = r.nextID
	r.nextID++
	stored := *staff
	r.staff[staff.ID] = &stored
	return nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	copied := *staff
	return &copied, nil
}

func (r *fakeStaffRepo) List(ctx context.Context) ([]models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(), nil
}

func (r *fakeStaffRepo) DeleteCascade(ctx context.Context, id uint) error {
	r.mu.Lock()
	if _, ok := r.staff[id]; !ok {
		r.mu.Unlock()
		return domain.ErrStaffNotFound
	}
	delete(r.staff, id)
	r.mu.Unlock()
	if r.tickets != nil {
		r.tickets.deleteByStaff(id)
	}
	return nil
}

// newTestQueue wires a queue service against the fakes plus a live display
// hub, with one staff member pre-registered.
func newTestQueue() (*QueueService, *fakeTicketRepo, *fakeStaffRepo, *DisplayNotifyService) {
	staffRepo := newFakeStaffRepo()
	ticketRepo := newFakeTicketRepo(staffRepo)
	staffRepo.tickets = ticketRepo
	notify := NewDisplayNotifyService()
	svc := NewQueueService(ticketRepo, staffRepo, notify)
	return svc, ticketRepo, staffRepo, notify
}
