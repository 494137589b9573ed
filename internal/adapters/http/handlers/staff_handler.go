package handlers

import (
	"strconv"

	"fila-escolar/internal/core/domain"
	"fila-escolar/internal/core/services"
	"fila-escolar/internal/pkg/pagination"
	"fila-escolar/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles the staff directory endpoints
type StaffHandler struct {
	staffService *services.StaffService
	queueService *services.QueueService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService, queueService *services.QueueService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		queueService: queueService,
	}
}

// List returns all staff members (public: feeds the request form)
// @Summary List staff
// @Description Returns all staff members in creation order.
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Response
// @Router /staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	staff, err := h.staffService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list staff")
	}
	return response.Success(c, "Staff retrieved", staff)
}

// Create adds a staff member (admin)
// @Summary Create staff
// @Description Adds a staff member to the directory.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.CreateStaffInput true "Staff member"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/staff [post]
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var input services.CreateStaffInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staff, err := h.staffService.Create(c.Context(), input)
	if err != nil {
		switch err {
		case domain.ErrEmptyStaffName, domain.ErrEmptySubject:
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create staff")
		}
	}
	return response.Created(c, "Staff created", staff)
}

// Delete removes a staff member and all of its tickets (admin)
// @Summary Delete staff
// @Description Removes a staff member; all of its tickets are removed with it.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/staff/{id} [delete]
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	staffID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	if err := h.staffService.Delete(c.Context(), uint(staffID)); err != nil {
		if err == domain.ErrStaffNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to delete staff")
	}
	return response.Success(c, "Staff deleted", nil)
}

// ListTickets returns the paginated ticket log for one staff member (admin)
// @Summary Staff ticket log
// @Description Returns all tickets ever requested for a staff member, newest first.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/staff/{id}/tickets [get]
func (h *StaffHandler) ListTickets(c *fiber.Ctx) error {
	staffID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	params := pagination.GetParams(c)
	tickets, total, err := h.staffService.ListTickets(c.Context(), uint(staffID), params.Offset, params.Limit)
	if err != nil {
		if err == domain.ErrStaffNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to list tickets")
	}
	return response.Success(c, "Tickets retrieved", pagination.NewResponse(tickets, params, total))
}

// Dashboard returns the per-staff queue overview (admin)
// @Summary Queue dashboard
// @Description Returns today's totals and per-staff waiting counts.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *StaffHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.queueService.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "Dashboard retrieved", dashboard)
}
