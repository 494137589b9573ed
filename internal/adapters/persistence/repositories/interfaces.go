package repositories

import (
	"context"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
)

// StaffQueueCount is one row of the per-staff waiting overview
type StaffQueueCount struct {
	StaffID uint   `json:"staff_id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Waiting int64  `json:"waiting"`
}

// TicketRepository defines ticket store operations
type TicketRepository interface {
	// Create inserts a new waiting ticket. Returns domain.ErrDuplicateTicket
	// when the student already has a ticket for the same calendar day.
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id uint) (*models.Ticket, error)
	// ListWaitingByStaff returns waiting tickets for one staff member,
	// oldest first.
	ListWaitingByStaff(ctx context.Context, staffID uint) ([]models.Ticket, error)
	// MarkCalled atomically transitions a waiting ticket to CALLED and stamps
	// called_at, counter_label and called_by. Calling it on an already-called
	// ticket is a no-op; the bool reports whether a transition happened.
	MarkCalled(ctx context.Context, id uint, counterLabel string, calledBy uint) (*models.Ticket, bool, error)
	// RecentCalled returns called tickets ordered by called_at descending,
	// truncated to limit.
	RecentCalled(ctx context.Context, limit int) ([]models.Ticket, error)
	// ListByStaff returns the full ticket log for one staff member, newest
	// first, with the total count for pagination.
	ListByStaff(ctx context.Context, staffID uint, offset, limit int) ([]models.Ticket, int64, error)
	CountByStatusAndDate(ctx context.Context, status string, date time.Time) (int64, error)
	WaitingCountsByStaff(ctx context.Context) ([]StaffQueueCount, error)
}

// StaffRepository defines staff directory operations
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	// List returns all staff in creation order.
	List(ctx context.Context) ([]models.Staff, error)
	// DeleteCascade removes a staff member and every ticket that references
	// it inside a single transaction.
	DeleteCascade(ctx context.Context, id uint) error
}
