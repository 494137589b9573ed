package handlers

import (
	"time"

	"fila-escolar/internal/adapters/http/middleware"
	"fila-escolar/internal/config"
	"fila-escolar/internal/core/domain"
	"fila-escolar/internal/core/services"
	"fila-escolar/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles staff and admin session endpoints
type AuthHandler struct {
	sessionService *services.SessionService
	cfg            *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessionService *services.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		cfg:            cfg,
	}
}

// LoginInput represents a staff login request
type LoginInput struct {
	StaffID uint   `json:"staff_id"`
	Counter string `json:"counter"`
}

// Login opens a staff session at a counter
// @Summary Staff login
// @Description Opens a session for a staff member at a counter and sets the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Staff and counter"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.StaffID == 0 {
		return response.BadRequest(c, "staff_id is required")
	}

	session, err := h.sessionService.Login(c.Context(), input.StaffID, input.Counter)
	if err != nil {
		if err == domain.ErrStaffNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to open session")
	}

	h.setSessionCookie(c, session.Token)
	return response.Success(c, "Session opened", session)
}

// AdminLoginInput represents an admin gate request
type AdminLoginInput struct {
	Secret string `json:"secret"`
}

// AdminLogin verifies the shared admin secret and opens an admin session
// @Summary Admin login
// @Description Verifies the shared administrative secret and sets an admin session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body AdminLoginInput true "Admin secret"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/admin [post]
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var input AdminLoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	session, err := h.sessionService.AdminLogin(input.Secret)
	if err != nil {
		if err == domain.ErrInvalidSecret {
			return response.Unauthorized(c, "Invalid admin secret")
		}
		return response.InternalServerError(c, "Failed to open session")
	}

	h.setSessionCookie(c, session.Token)
	return response.Success(c, "Admin session opened", session)
}

// Me returns the current session identity
// @Summary Current session
// @Description Returns the identity of the current session.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Session retrieved", identity)
}

// Logout clears the session cookie
// @Summary Logout
// @Description Clears the session cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
	return response.Success(c, "Session closed", nil)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cfg.Session.SessionHours) * time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
