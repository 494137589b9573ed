package services

import (
	"context"
	"log"
	"strings"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/core/domain"
)

// StaffService handles the staff directory: the list of people students can
// request a ticket for
type StaffService struct {
	staffRepo  repositories.StaffRepository
	ticketRepo repositories.TicketRepository
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repositories.StaffRepository, ticketRepo repositories.TicketRepository) *StaffService {
	return &StaffService{
		staffRepo:  staffRepo,
		ticketRepo: ticketRepo,
	}
}

// CreateStaffInput represents a staff creation request
type CreateStaffInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// Create adds a new staff member to the directory
func (s *StaffService) Create(ctx context.Context, input CreateStaffInput) (*models.Staff, error) {
	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	if name == "" {
		return nil, domain.ErrEmptyStaffName
	}
	if subject == "" {
		return nil, domain.ErrEmptySubject
	}

	staff := &models.Staff{Name: name, Subject: subject}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	log.Printf("✅ Staff created: %s (%s)", staff.Name, staff.Subject)
	return staff, nil
}

// List returns all staff in creation order
func (s *StaffService) List(ctx context.Context) ([]models.Staff, error) {
	return s.staffRepo.List(ctx)
}

// Get returns a staff member by ID
func (s *StaffService) Get(ctx context.Context, id uint) (*models.Staff, error) {
	return s.staffRepo.GetByID(ctx, id)
}

// Delete removes a staff member and cascades to all of its tickets
func (s *StaffService) Delete(ctx context.Context, id uint) error {
	if err := s.staffRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	log.Printf("✅ Staff %d deleted (tickets cascaded)", id)
	return nil
}

// ListTickets returns the paginated ticket log for one staff member
func (s *StaffService) ListTickets(ctx context.Context, staffID uint, offset, limit int) ([]models.Ticket, int64, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return nil, 0, err
	}
	return s.ticketRepo.ListByStaff(ctx, staffID, offset, limit)
}
