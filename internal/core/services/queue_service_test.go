package services

import (
	"context"
	"testing"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addStaff(t *testing.T, repo *fakeStaffRepo, name, subject string) *models.Staff {
	t.Helper()
	staff := &models.Staff{Name: name, Subject: subject}
	require.NoError(t, repo.Create(context.Background(), staff))
	return staff
}

func identityFor(staff *models.Staff, counter string) domain.Identity {
	return domain.Identity{
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Counter:   counter,
		Role:      domain.RoleStaff,
	}
}

func TestRequestTicket_Success(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), ticket.ID)
	assert.Equal(t, "Joao", ticket.StudentName)
	assert.Equal(t, models.TicketStatusWaiting, ticket.Status)
	assert.Nil(t, ticket.CalledAt)
	assert.Equal(t, "Ana", ticket.Staff.Name)
}

func TestRequestTicket_TrimsAndValidatesName(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	_, err := svc.RequestTicket(context.Background(), "   ", ana.ID)
	assert.ErrorIs(t, err, domain.ErrEmptyStudentName)

	ticket, err := svc.RequestTicket(context.Background(), "  Joao  ", ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joao", ticket.StudentName)
}

func TestRequestTicket_UnknownStaff(t *testing.T) {
	svc, _, _, _ := newTestQueue()

	_, err := svc.RequestTicket(context.Background(), "Joao", 42)
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
}

func TestRequestTicket_DailyLimit(t *testing.T) {
	svc, ticketRepo, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")
	carlos := addStaff(t, staffRepo, "Carlos", "Mathematics")

	_, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)

	// Same day, same staff
	_, err = svc.RequestTicket(context.Background(), "Joao", ana.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)

	// Same day, different staff: still blocked
	_, err = svc.RequestTicket(context.Background(), "Joao", carlos.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)

	// The limit applies even after the ticket was called
	ident := identityFor(ana, "1")
	_, err = svc.CallTicket(context.Background(), 1, ident)
	require.NoError(t, err)
	_, err = svc.RequestTicket(context.Background(), "Joao", ana.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)

	// Next calendar day: a fresh ticket with a new id
	ticketRepo.mu.Lock()
	ticketRepo.tickets[1].TicketDate = ticketRepo.tickets[1].TicketDate.AddDate(0, 0, -1)
	ticketRepo.mu.Unlock()

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), ticket.ID)
}

func TestQueueDate_LocalCalendarDay(t *testing.T) {
	// A school west of UTC: a day that straddles UTC midnight must still
	// bucket by the wall-clock calendar day.
	recife := time.FixedZone("UTC-3", -3*60*60)

	morning := time.Date(2026, 3, 2, 8, 0, 0, 0, recife)
	evening := time.Date(2026, 3, 2, 22, 0, 0, 0, recife)
	nextMorning := time.Date(2026, 3, 3, 8, 0, 0, 0, recife)

	assert.True(t, QueueDate(morning).Equal(QueueDate(evening)),
		"two instants of the same local day must share one bucket")
	assert.False(t, QueueDate(evening).Equal(QueueDate(nextMorning)),
		"adjacent local days must not share a bucket")

	bucket := QueueDate(evening)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, recife), bucket)
	assert.Equal(t, recife.String(), bucket.Location().String())
}

func TestListWaiting_FIFOAndIsolation(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")
	carlos := addStaff(t, staffRepo, "Carlos", "Mathematics")

	_, err := svc.RequestTicket(context.Background(), "Alice", ana.ID)
	require.NoError(t, err)
	_, err = svc.RequestTicket(context.Background(), "Bruno", ana.ID)
	require.NoError(t, err)
	_, err = svc.RequestTicket(context.Background(), "Clara", carlos.ID)
	require.NoError(t, err)

	waiting, err := svc.ListWaiting(context.Background(), ana.ID)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	assert.Equal(t, "Alice", waiting[0].StudentName)
	assert.Equal(t, "Bruno", waiting[1].StudentName)
	for _, ticket := range waiting {
		assert.Equal(t, ana.ID, ticket.StaffID)
	}
}

func TestCallTicket_TransitionsAndBroadcasts(t *testing.T) {
	svc, _, staffRepo, notify := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	client := &DisplayClient{ID: "tv-test", Channel: make(chan DisplayEvent, 10)}
	notify.Register(client)
	defer notify.Unregister(client.ID)

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)

	called, err := svc.CallTicket(context.Background(), ticket.ID, identityFor(ana, "3"))
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCalled, called.Status)
	require.NotNil(t, called.CalledAt)
	assert.Equal(t, "3", called.CounterLabel)

	select {
	case event := <-client.Channel:
		assert.Equal(t, EventTicketCalled, event.Event)
		announcement, ok := event.Data.(CallAnnouncement)
		require.True(t, ok)
		assert.Equal(t, "Joao", announcement.CurrentCall.StudentName)
		assert.Equal(t, "Ana", announcement.CurrentCall.StaffName)
		assert.Equal(t, "3", announcement.CurrentCall.Counter)
		require.Len(t, announcement.History, 1)
		assert.Equal(t, "Joao", announcement.History[0].StudentName)
	case <-time.After(time.Second):
		t.Fatal("expected a call announcement on the display channel")
	}
}

func TestCallTicket_Idempotent(t *testing.T) {
	svc, _, staffRepo, notify := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	client := &DisplayClient{ID: "tv-test", Channel: make(chan DisplayEvent, 10)}
	notify.Register(client)
	defer notify.Unregister(client.ID)

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)

	ident := identityFor(ana, "1")
	first, err := svc.CallTicket(context.Background(), ticket.ID, ident)
	require.NoError(t, err)
	<-client.Channel // consume the first announcement

	second, err := svc.CallTicket(context.Background(), ticket.ID, ident)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCalled, second.Status)
	assert.True(t, first.CalledAt.Equal(*second.CalledAt), "called_at must not change on a repeat call")

	select {
	case event := <-client.Channel:
		t.Fatalf("repeat call must not re-broadcast, got %q", event.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCallTicket_RejectsCrossStaff(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")
	carlos := addStaff(t, staffRepo, "Carlos", "Mathematics")

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)

	_, err = svc.CallTicket(context.Background(), ticket.ID, identityFor(carlos, "2"))
	assert.ErrorIs(t, err, domain.ErrNotTicketOwner)

	// No state change
	stored, err := svc.RecentHistory(context.Background(), HistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCallTicket_NotFound(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	_, err := svc.CallTicket(context.Background(), 99, identityFor(ana, "1"))
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestRecentHistory_OrderAndLimit(t *testing.T) {
	svc, ticketRepo, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")
	ident := identityFor(ana, "1")

	students := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range students {
		ticket := &models.Ticket{
			StudentName: name,
			TicketDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			StaffID:     ana.ID,
			Status:      models.TicketStatusWaiting,
		}
		require.NoError(t, ticketRepo.Create(context.Background(), ticket))
		_, err := svc.CallTicket(context.Background(), ticket.ID, ident)
		require.NoError(t, err)
	}

	history, err := svc.RecentHistory(context.Background(), HistoryLimit)
	require.NoError(t, err)
	require.Len(t, history, HistoryLimit)

	// Most recent first, strictly descending called_at
	assert.Equal(t, "G", history[0].StudentName)
	assert.Equal(t, "C", history[4].StudentName)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].CalledAt.After(*history[i].CalledAt))
	}
}

func TestSnapshot(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")

	// Empty queue: no current call
	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot.CurrentCall)
	assert.Empty(t, snapshot.History)

	ticket, err := svc.RequestTicket(context.Background(), "Joao", ana.ID)
	require.NoError(t, err)
	_, err = svc.CallTicket(context.Background(), ticket.ID, identityFor(ana, "2"))
	require.NoError(t, err)

	snapshot, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot.CurrentCall)
	assert.Equal(t, "Joao", snapshot.CurrentCall.StudentName)
	assert.Equal(t, "Ana", snapshot.CurrentCall.StaffName)
	assert.Equal(t, "2", snapshot.CurrentCall.Counter)
	require.Len(t, snapshot.History, 1)
}

func TestDashboard(t *testing.T) {
	svc, _, staffRepo, _ := newTestQueue()
	ana := addStaff(t, staffRepo, "Ana", "Coordination")
	carlos := addStaff(t, staffRepo, "Carlos", "Mathematics")

	_, err := svc.RequestTicket(context.Background(), "Alice", ana.ID)
	require.NoError(t, err)
	_, err = svc.RequestTicket(context.Background(), "Bruno", ana.ID)
	require.NoError(t, err)
	_, err = svc.RequestTicket(context.Background(), "Clara", carlos.ID)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.TotalWaiting)
	require.Len(t, dashboard.Staff, 2)
	assert.Equal(t, int64(2), dashboard.Staff[0].Waiting)
	assert.Equal(t, int64(1), dashboard.Staff[1].Waiting)
}
