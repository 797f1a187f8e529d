package service

import (
	"context"
	"errors"

	"classpoints/internal/dto"
	"classpoints/internal/identity"
	"classpoints/internal/model"
	"classpoints/internal/realtime"
	"classpoints/internal/repository"
	"classpoints/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type SupervisorService interface {
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, input dto.CreateSupervisorInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type supervisorService struct {
	users     repository.UserRepository
	identity  *identity.Provider
	live      *realtime.Publisher
	sanitizer *bluemonday.Policy
}

func NewSupervisorService(users repository.UserRepository, provider *identity.Provider, live *realtime.Publisher) SupervisorService {
	return &supervisorService{
		users:     users,
		identity:  provider,
		live:      live,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *supervisorService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.FindByRole(ctx, model.RoleSupervisor)
}

// Create is a two-phase operation: register the auth identity through a
// scoped provisioning context, then write the profile keyed by the new
// identity ID with the role fixed to supervisor. The provisioning context is
// released on every exit path. If the profile write fails after phase one,
// the identity remains without a profile (same gap as the original system).
func (s *supervisorService) Create(ctx context.Context, input dto.CreateSupervisorInput) (*model.User, error) {
	prov := s.identity.NewProvisioner()
	defer prov.Close()

	identityID, err := prov.Register(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:    identityID,
		Name:  s.sanitizer.Sanitize(input.Name),
		Email: input.Email,
		Role:  model.RoleSupervisor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.live.CollectionChanged(ctx, realtime.StreamSupervisors)

	return user, nil
}

// Delete removes only the profile document. The identity record is kept, so
// the account can no longer reach a dashboard but still exists in the
// identity store.
func (s *supervisorService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	s.live.CollectionChanged(ctx, realtime.StreamSupervisors)

	return nil
}
