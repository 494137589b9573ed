package services

import (
	"context"
	"log"
	"strings"

	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/config"
	"fila-escolar/internal/core/domain"
	"fila-escolar/internal/pkg/jwt"
	"fila-escolar/internal/pkg/password"
)

// SessionService issues and describes session tokens: which staff member is
// serving at which counter, and the admin gate for the staff directory.
type SessionService struct {
	staffRepo repositories.StaffRepository
	cfg       *config.Config
	adminHash string
}

// NewSessionService creates a new session service. When no pre-hashed admin
// secret is configured the plain secret is hashed once at construction.
func NewSessionService(staffRepo repositories.StaffRepository, cfg *config.Config) *SessionService {
	adminHash := cfg.Admin.SecretHash
	if adminHash == "" {
		hashed, err := password.Hash(cfg.Admin.Secret)
		if err != nil {
			log.Printf("❌ Failed to hash admin secret: %v", err)
		} else {
			adminHash = hashed
		}
	}
	return &SessionService{
		staffRepo: staffRepo,
		cfg:       cfg,
		adminHash: adminHash,
	}
}

// SessionResponse is a login result: token plus the identity it encodes
type SessionResponse struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"identity"`
}

// Login opens a staff session at a counter. The staff member must exist in
// the directory; the counter label is free-text display metadata.
func (s *SessionService) Login(ctx context.Context, staffID uint, counter string) (*SessionResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	counter = strings.TrimSpace(counter)
	if counter == "" {
		counter = "1"
	}

	token, err := jwt.GenerateSessionToken(staff.ID, staff.Name, counter,
		string(domain.RoleStaff), s.cfg.Session.Secret, s.cfg.Session.SessionHours)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Staff session opened: %s @ counter %s", staff.Name, counter)
	return &SessionResponse{
		Token: token,
		Identity: domain.Identity{
			StaffID:   staff.ID,
			StaffName: staff.Name,
			Counter:   counter,
			Role:      domain.RoleStaff,
		},
	}, nil
}

// AdminLogin verifies the shared administrative secret and issues an
// admin-role session token
func (s *SessionService) AdminLogin(secret string) (*SessionResponse, error) {
	if s.adminHash == "" || !password.Verify(secret, s.adminHash) {
		return nil, domain.ErrInvalidSecret
	}

	token, err := jwt.GenerateSessionToken(0, "admin", "",
		string(domain.RoleAdmin), s.cfg.Session.Secret, s.cfg.Session.SessionHours)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Admin session opened")
	return &SessionResponse{
		Token: token,
		Identity: domain.Identity{
			StaffName: "admin",
			Role:      domain.RoleAdmin,
		},
	}, nil
}
