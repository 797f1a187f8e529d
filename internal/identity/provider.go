// Package identity wraps the account store that plays the part of the
// external authentication service: sign-in checks and account provisioning.
// Identities live in their own table and are intentionally left behind when a
// user profile is deleted, matching the behavior of a hosted auth service
// whose accounts are managed separately from profile documents.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"classpoints/internal/model"
	"classpoints/internal/repository"
	"classpoints/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLen mirrors the hosted auth service's weak-password rule.
const MinPasswordLen = 6

type Provider struct {
	repo repository.IdentityRepository

	mu     sync.Mutex
	active map[string]struct{}
}

func NewProvider(repo repository.IdentityRepository) *Provider {
	return &Provider{
		repo:   repo,
		active: make(map[string]struct{}),
	}
}

// Authenticate verifies email+password and returns the matching identity.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (*model.Identity, error) {
	identity, err := p.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return identity, nil
}

// Provisioner is a temporary, isolated registration context. Creating an
// account through it never touches the caller's own session. It must be
// released with Close on every exit path.
type Provisioner struct {
	provider *Provider
	name     string
	closed   bool
}

// NewProvisioner acquires a provisioning context under a unique temporary
// name, so repeated admin actions never collide.
func (p *Provider) NewProvisioner() *Provisioner {
	name := fmt.Sprintf("provision-%s", uuid.New().String())

	p.mu.Lock()
	p.active[name] = struct{}{}
	p.mu.Unlock()

	return &Provisioner{provider: p, name: name}
}

// Register creates a new identity. The caller's session is unaffected.
func (pr *Provisioner) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	if pr.closed {
		return uuid.Nil, errors.New("provisioning context already released")
	}

	if len(password) < MinPasswordLen {
		return uuid.Nil, apperror.ErrWeakPassword
	}

	if _, err := pr.provider.repo.FindByEmail(ctx, email); err == nil {
		return uuid.Nil, apperror.ErrEmailAlreadyInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &model.Identity{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := pr.provider.repo.Create(ctx, identity); err != nil {
		return uuid.Nil, err
	}

	return identity.ID, nil
}

// Close releases the provisioning context. Safe to call more than once.
func (pr *Provisioner) Close() {
	if pr.closed {
		return
	}
	pr.closed = true

	pr.provider.mu.Lock()
	delete(pr.provider.active, pr.name)
	pr.provider.mu.Unlock()
}

// ActiveProvisioners reports contexts that have not been released yet.
func (p *Provider) ActiveProvisioners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}
