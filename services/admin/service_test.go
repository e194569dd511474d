package admin

import (
	"context"
	"errors"
	"sync"
	"testing"

	adminRepo "clinicore/database/repository/admin"
	"clinicore/models"
	"clinicore/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memAdminRepo struct {
	mu     sync.Mutex
	admins map[string]models.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[string]models.Admin)}
}

func (r *memAdminRepo) Create(ctx context.Context, a models.Admin) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	r.admins[a.ID] = a
	return a.ID, nil
}

func (r *memAdminRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, adminRepo.ErrNotFound
	}
	return &a, nil
}

func (r *memAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, adminRepo.ErrNotFound
}

func (r *memAdminRepo) GetByTokenHash(ctx context.Context, hash string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hash == "" {
		return nil, adminRepo.ErrNotFound
	}
	for _, a := range r.admins {
		if a.TokenHash == hash {
			a := a
			return &a, nil
		}
	}
	return nil, adminRepo.ErrNotFound
}

func (r *memAdminRepo) Update(ctx context.Context, a models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[a.ID]; !ok {
		return adminRepo.ErrNotFound
	}
	r.admins[a.ID] = a
	return nil
}

func (r *memAdminRepo) SetTokenHash(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return adminRepo.ErrNotFound
	}
	a.TokenHash = hash
	r.admins[id] = a
	return nil
}

func (r *memAdminRepo) TouchLastLogin(ctx context.Context, id string) error {
	return nil
}

func seedAdmin(t *testing.T, repo *memAdminRepo, email, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	id, err := repo.Create(context.Background(), models.Admin{
		FirstName:    "Maria",
		LastName:     "Santos",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return id
}

func TestLoginAndAuthenticate(t *testing.T) {
	repo := newMemAdminRepo()
	seedAdmin(t, repo, "maria@clinic.test", "correct-horse")
	svc := NewService(repo, nil)
	ctx := context.Background()

	session, err := svc.Login(ctx, "Maria@Clinic.Test ", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("login returned an empty token")
	}

	current, err := svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if current.Email != "maria@clinic.test" {
		t.Errorf("authenticated email = %s", current.Email)
	}
}

func TestLoginFailures(t *testing.T) {
	repo := newMemAdminRepo()
	seedAdmin(t, repo, "maria@clinic.test", "correct-horse")
	svc := NewService(repo, nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@clinic.test", "correct-horse"},
		{"wrong password", "maria@clinic.test", "wrong"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Login(ctx, c.email, c.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("login err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newMemAdminRepo()
	id := seedAdmin(t, repo, "maria@clinic.test", "correct-horse")
	svc := NewService(repo, nil)
	ctx := context.Background()

	session, err := svc.Login(ctx, "maria@clinic.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, id); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The JWT itself is still unexpired, but the stored hash is gone.
	if _, err := svc.Authenticate(ctx, session.Token); err == nil {
		t.Fatal("token accepted after logout")
	}
}

func TestNewLoginReplacesOldSession(t *testing.T) {
	repo := newMemAdminRepo()
	seedAdmin(t, repo, "maria@clinic.test", "correct-horse")
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Login(ctx, "maria@clinic.test", "correct-horse")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, "maria@clinic.test", "correct-horse")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if utils.HashToken(first.Token) != utils.HashToken(second.Token) {
		if _, err := svc.Authenticate(ctx, first.Token); err == nil {
			t.Fatal("first session still valid after second login")
		}
	}
	if _, err := svc.Authenticate(ctx, second.Token); err != nil {
		t.Fatalf("second session rejected: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMemAdminRepo()
	id := seedAdmin(t, repo, "maria@clinic.test", "correct-horse")
	svc := NewService(repo, nil)
	ctx := context.Background()

	session, err := svc.Login(ctx, "maria@clinic.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.ChangePassword(ctx, id, "wrong", "new-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("change with wrong current err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, id, "correct-horse", "short"); err == nil {
		t.Fatal("accepted a too-short password")
	}

	if err := svc.ChangePassword(ctx, id, "correct-horse", "new-password-1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, session.Token); err == nil {
		t.Fatal("old session still valid after password change")
	}
	if _, err := svc.Login(ctx, "maria@clinic.test", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still accepted")
	}
	if _, err := svc.Login(ctx, "maria@clinic.test", "new-password-1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
