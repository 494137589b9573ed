package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket status values
const (
	TicketStatusWaiting = "WAITING"
	TicketStatusCalled  = "CALLED"
)

// Staff represents a staff member students can request a ticket for
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Subject   string    `gorm:"size:100;not null" json:"subject"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// Ticket represents a single queue request from a student.
//
// The composite unique index on (student_name, ticket_date) enforces the
// one-ticket-per-student-per-day rule at the database level, so two
// near-simultaneous requests from the same student cannot both succeed.
type Ticket struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentName  string     `gorm:"size:100;not null;uniqueIndex:idx_student_daily" json:"student_name"`
	TicketDate   time.Time  `gorm:"type:date;not null;uniqueIndex:idx_student_daily;index" json:"ticket_date"`
	StaffID      uint       `gorm:"not null;index" json:"staff_id"`
	Status       string     `gorm:"size:15;default:'WAITING';index" json:"status"`
	CalledAt     *time.Time `json:"called_at"`
	CounterLabel string     `gorm:"size:50" json:"counter_label,omitempty"`
	CalledBy     *uint      `json:"called_by,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Staff        Staff      `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// AutoMigrate runs auto migration for all queue tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Staff{},
		&Ticket{},
	)
}
