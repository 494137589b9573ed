package handlers

import (
	"strconv"

	"fila-escolar/internal/adapters/http/middleware"
	"fila-escolar/internal/core/domain"
	"fila-escolar/internal/core/services"
	"fila-escolar/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// QueueHandler handles ticket request and call endpoints
type QueueHandler struct {
	queueService *services.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
	}
}

// RequestTicketInput represents a student ticket request
type RequestTicketInput struct {
	StudentName string `json:"student_name"`
	StaffID     uint   `json:"staff_id"`
}

// RequestTicket handles a student asking for a ticket
// @Summary Request a ticket
// @Description Creates a waiting ticket for a student. One ticket per student per calendar day.
// @Tags Queue
// @Accept json
// @Produce json
// @Param input body RequestTicketInput true "Ticket request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /tickets [post]
func (h *QueueHandler) RequestTicket(c *fiber.Ctx) error {
	var input RequestTicketInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.StaffID == 0 {
		return response.BadRequest(c, "staff_id is required")
	}

	ticket, err := h.queueService.RequestTicket(c.Context(), input.StudentName, input.StaffID)
	if err != nil {
		switch err {
		case domain.ErrEmptyStudentName:
			return response.BadRequest(c, err.Error())
		case domain.ErrStaffNotFound:
			return response.NotFound(c, "Staff member not found")
		case domain.ErrDuplicateTicket:
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create ticket")
		}
	}
	return response.Created(c, "Ticket created", ticket)
}

// ListWaiting returns the logged-in staff member's waiting FIFO
// @Summary List waiting tickets
// @Description Returns the waiting tickets for the logged-in staff member, oldest first.
// @Tags Queue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /queue/waiting [get]
func (h *QueueHandler) ListWaiting(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	tickets, err := h.queueService.ListWaiting(c.Context(), identity.StaffID)
	if err != nil {
		if err == domain.ErrStaffNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to list waiting tickets")
	}
	return response.Success(c, "Waiting tickets retrieved", tickets)
}

// CallTicketInput represents a staff call request
type CallTicketInput struct {
	TicketID uint `json:"ticket_id"`
}

// CallTicket transitions a waiting ticket to called and notifies displays
// @Summary Call a ticket
// @Description Calls a waiting ticket belonging to the logged-in staff member and broadcasts it to displays.
// @Tags Queue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body CallTicketInput true "Ticket to call"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /queue/call [post]
func (h *QueueHandler) CallTicket(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var input CallTicketInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.TicketID == 0 {
		return response.BadRequest(c, "ticket_id is required")
	}

	ticket, err := h.queueService.CallTicket(c.Context(), input.TicketID, identity)
	if err != nil {
		switch err {
		case domain.ErrTicketNotFound:
			return response.NotFound(c, "Ticket not found")
		case domain.ErrNotTicketOwner:
			return response.Forbidden(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to call ticket")
		}
	}
	return response.Success(c, "Ticket called", ticket)
}

// RecentHistory returns the recent called-tickets list
// @Summary Recent call history
// @Description Returns the most recently called tickets, newest first, up to 5.
// @Tags Queue
// @Produce json
// @Param limit query int false "Maximum entries (1-5)"
// @Success 200 {object} response.Response
// @Router /history [get]
func (h *QueueHandler) RecentHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(services.HistoryLimit)))

	history, err := h.queueService.RecentHistory(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load history")
	}
	return response.Success(c, "History retrieved", history)
}
