package repositories

import (
	"context"
	"errors"
	"time"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ticketRepository handles ticket database operations
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create inserts a new waiting ticket. The unique index on
// (student_name, ticket_date) makes the daily-limit check atomic: a
// duplicate insert fails here instead of racing a prior SELECT.
func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	err := r.db.WithContext(ctx).Create(ticket).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateTicket
	}
	return err
}

// GetByID returns a ticket by ID with its staff relation
func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Preload("Staff").First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListWaitingByStaff returns the FIFO a staff member sees: waiting tickets
// for that staff only, oldest first
func (r *ticketRepository) ListWaitingByStaff(ctx context.Context, staffID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND status = ?", staffID, models.TicketStatusWaiting).
		Order("id ASC").
		Find(&tickets).Error
	return tickets, err
}

// MarkCalled transitions a ticket to CALLED under a row lock so the
// waiting→called transition and its timestamps commit as one unit.
// An already-called ticket is left untouched and returned as-is.
func (r *ticketRepository) MarkCalled(ctx context.Context, id uint, counterLabel string, calledBy uint) (*models.Ticket, bool, error) {
	transitioned := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTicketNotFound
			}
			return err
		}
		if ticket.Status == models.TicketStatusCalled {
			// Tolerate double-submits from a slow UI: keep the original
			// called_at and report no transition.
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":        models.TicketStatusCalled,
			"called_at":     now,
			"counter_label": counterLabel,
			"called_by":     calledBy,
		}
		if err := tx.Model(&models.Ticket{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return ticket, transitioned, nil
}

// RecentCalled returns the most recently called tickets, newest first
func (r *ticketRepository) RecentCalled(ctx context.Context, limit int) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("status = ?", models.TicketStatusCalled).
		Order("called_at DESC").
		Limit(limit).
		Find(&tickets).Error
	return tickets, err
}

// ListByStaff returns the paginated ticket log for one staff member
func (r *ticketRepository) ListByStaff(ctx context.Context, staffID uint, offset, limit int) ([]models.Ticket, int64, error) {
	var tickets []models.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Ticket{}).Where("staff_id = ?", staffID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&tickets).Error
	return tickets, total, err
}

// CountByStatusAndDate counts tickets in a status for one calendar day
func (r *ticketRepository) CountByStatusAndDate(ctx context.Context, status string, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("status = ? AND ticket_date = ?", status, date).
		Count(&count).Error
	return count, err
}

// WaitingCountsByStaff returns how many students are waiting per staff member
func (r *ticketRepository) WaitingCountsByStaff(ctx context.Context) ([]StaffQueueCount, error) {
	var counts []StaffQueueCount
	err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Select("staff.id AS staff_id, staff.name, staff.subject, COUNT(t.id) AS waiting").
		Joins("LEFT JOIN tickets t ON t.staff_id = staff.id AND t.status = ?", models.TicketStatusWaiting).
		Group("staff.id, staff.name, staff.subject").
		Order("staff.id ASC").
		Scan(&counts).Error
	return counts, err
}
