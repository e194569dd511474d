package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	adminRepo "clinicore/database/repository/admin"
	"clinicore/models"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"golang.org/x/crypto/bcrypt"
)

// sessionTTL bounds how long an issued session token stays valid.
const sessionTTL = 12 * time.Hour

// ErrInvalidCredentials is returned on any login failure. The cause (unknown
// email, wrong password, deactivated account) is deliberately not leaked.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is the result of a successful login.
type Session struct {
	Token string       `json:"token"`
	Admin models.Admin `json:"admin"`
}

// Service handles back-office authentication. Single active session per
// admin: issuing a new token replaces the stored hash, invalidating the old
// session.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, adminID string) error
	Authenticate(ctx context.Context, token string) (*models.Admin, error)
	ChangePassword(ctx context.Context, adminID, current, next string) error
	GetByID(ctx context.Context, id string) (*models.Admin, error)
}

// DefaultService implements Service over the admin repository.
type DefaultService struct {
	repo  adminRepo.AdminRepository
	audit scheduling.AuditRecorder
}

// NewService returns the admin auth service. audit may be nil.
func NewService(repo adminRepo.AdminRepository, audit scheduling.AuditRecorder) *DefaultService {
	return &DefaultService{repo: repo, audit: audit}
}

// Login verifies the credentials and issues a session token.
func (s *DefaultService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, adminRepo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role, sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token failed: %w", err)
	}
	if err := s.repo.SetTokenHash(ctx, admin.ID, utils.HashToken(token)); err != nil {
		return nil, fmt.Errorf("store session failed: %w", err)
	}
	if err := s.repo.TouchLastLogin(ctx, admin.ID); err != nil {
		return nil, err
	}

	s.record(ctx, *admin, models.ActionLogin, "Logged in")
	return &Session{Token: token, Admin: *admin}, nil
}

// Logout revokes the admin's current session.
func (s *DefaultService) Logout(ctx context.Context, adminID string) error {
	admin, err := s.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if err := s.repo.SetTokenHash(ctx, adminID, ""); err != nil {
		return fmt.Errorf("revoke session failed: %w", err)
	}
	s.record(ctx, *admin, models.ActionLogout, "Logged out")
	return nil
}

// Authenticate resolves a bearer token to its admin. The token must both
// verify as a JWT and match the stored session hash, so logout and password
// change revoke it immediately.
func (s *DefaultService) Authenticate(ctx context.Context, token string) (*models.Admin, error) {
	if _, err := utils.ValidateToken(token); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	admin, err := s.repo.GetByTokenHash(ctx, utils.HashToken(token))
	if errors.Is(err, adminRepo.ErrNotFound) {
		return nil, errors.New("session revoked")
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, errors.New("account deactivated")
	}
	return admin, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes the active session.
func (s *DefaultService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	if len(next) < 8 {
		return scheduling.ValidationError{Field: "newPassword", Reason: "must be at least 8 characters"}
	}

	admin, err := s.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	admin.PasswordHash = string(hash)
	admin.TokenHash = ""
	if err := s.repo.Update(ctx, *admin); err != nil {
		return fmt.Errorf("update admin failed: %w", err)
	}

	s.record(ctx, *admin, models.ActionPasswordChanged, "Changed password")
	return nil
}

// GetByID returns a single admin.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, adminRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "admin", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *DefaultService) record(ctx context.Context, admin models.Admin, action, description string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		ActorID:     admin.ID,
		ActorName:   admin.FullName(),
		Action:      action,
		EntityType:  "admin",
		EntityID:    admin.ID,
		EntityName:  admin.FullName(),
		Description: description,
	})
}
