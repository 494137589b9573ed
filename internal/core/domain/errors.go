package domain

import "errors"

// Validation errors, shown inline to the user
var (
	ErrEmptyStudentName = errors.New("student name is required")
	ErrEmptyStaffName   = errors.New("staff name is required")
	ErrEmptySubject     = errors.New("subject is required")
)

// Business rule errors
var (
	ErrDuplicateTicket = errors.New("student already requested a ticket today")
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrNotTicketOwner  = errors.New("ticket belongs to another staff member")
)

// Session errors
var (
	ErrInvalidSecret = errors.New("invalid admin secret")
	ErrUnauthorized  = errors.New("unauthorized")
)
