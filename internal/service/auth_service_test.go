package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"classpoints/internal/dto"
	"classpoints/internal/identity"
	"classpoints/internal/model"
	"classpoints/pkg/apperror"
	"github.com/google/uuid"
)

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeSessionStore, *identity.Provider) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	provider := identity.NewProvider(newFakeIdentityRepoForService())
	svc := NewAuthService(provider, users, sessions, "test-secret", time.Hour)
	return svc, users, sessions, provider
}

func provisionAccount(t *testing.T, provider *identity.Provider, users *fakeUserRepo, name, email, password, role string) uuid.UUID {
	t.Helper()
	prov := provider.NewProvisioner()
	defer prov.Close()

	id, err := prov.Register(context.Background(), email, password)
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if role != "" {
		if err := users.Create(context.Background(), &model.User{ID: id, Name: name, Email: email, Role: role}); err != nil {
			t.Fatalf("create profile error: %v", err)
		}
	}
	return id
}

func TestLoginSuccess(t *testing.T) {
	svc, users, sessions, provider := newTestAuthService(t)
	provisionAccount(t, provider, users, "Ms. Admin", "admin@school.test", "secret123", model.RoleAdmin)

	res, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "admin@school.test",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
	if res.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", res.Role)
	}
	if res.Name != "Ms. Admin" {
		t.Errorf("name = %q, want Ms. Admin", res.Name)
	}
	if sessions.count() != 1 {
		t.Errorf("session records = %d, want 1", sessions.count())
	}
}

func TestLoginRoleMismatchLeavesNoSession(t *testing.T) {
	svc, users, sessions, provider := newTestAuthService(t)
	provisionAccount(t, provider, users, "Sup", "sup@school.test", "secret123", model.RoleSupervisor)

	// Supervisor credentials on the admin login entry point.
	res, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "sup@school.test",
		Password: "secret123",
		Role:     model.RoleAdmin,
	})
	if !errors.Is(err, apperror.ErrRoleMismatch) {
		t.Fatalf("err = %v, want ErrRoleMismatch", err)
	}
	if res != nil {
		t.Error("expected no auth response on role mismatch")
	}
	if sessions.count() != 0 {
		t.Errorf("session records = %d, want 0 (caller must end up signed out)", sessions.count())
	}
}

func TestLoginProfileNotFound(t *testing.T) {
	svc, users, sessions, provider := newTestAuthService(t)
	// Identity exists but no profile document was ever written.
	provisionAccount(t, provider, users, "", "ghost@school.test", "secret123", "")

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "ghost@school.test",
		Password: "secret123",
	})
	if !errors.Is(err, apperror.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
	if sessions.count() != 0 {
		t.Errorf("session records = %d, want 0", sessions.count())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, users, _, provider := newTestAuthService(t)
	provisionAccount(t, provider, users, "Sup", "sup@school.test", "secret123", model.RoleSupervisor)

	if _, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "sup@school.test",
		Password: "nope-nope",
	}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSessionSaveFailureIssuesNoToken(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	sessions.saveErr = errors.New("redis down")
	provider := identity.NewProvider(newFakeIdentityRepoForService())
	svc := NewAuthService(provider, users, sessions, "test-secret", time.Hour)

	provisionAccount(t, provider, users, "Sup", "sup@school.test", "secret123", model.RoleSupervisor)

	res, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "sup@school.test",
		Password: "secret123",
	})
	if err == nil {
		t.Fatal("expected error when session record cannot be written")
	}
	if res != nil {
		t.Error("expected no token when session save fails")
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	svc, users, sessions, provider := newTestAuthService(t)
	provisionAccount(t, provider, users, "Sup", "sup@school.test", "secret123", model.RoleSupervisor)

	if _, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "sup@school.test",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("login error: %v", err)
	}

	var tokenID string
	for id := range sessions.sessions {
		tokenID = id
	}

	if err := svc.Logout(context.Background(), tokenID); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if sessions.count() != 0 {
		t.Errorf("session records after logout = %d, want 0", sessions.count())
	}
}
