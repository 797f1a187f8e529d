package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"classpoints/internal/model"
	"classpoints/internal/realtime"
	"classpoints/internal/repository"
	"classpoints/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories, shared by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, role string) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	users, _ := r.FindByRole(ctx, role)
	return int64(len(users)), nil
}

type fakeClassRepo struct {
	mu      sync.Mutex
	classes map[string]*model.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[string]*model.Class)}
}

func (r *fakeClassRepo) Create(ctx context.Context, class *model.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if class.ID == uuid.Nil {
		class.ID = uuid.New()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now()
	}
	r.classes[class.ID.String()] = class
	return nil
}

func (r *fakeClassRepo) FindByID(ctx context.Context, id string) (*model.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if class, ok := r.classes[id]; ok {
		copied := *class
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClassRepo) FindAll(ctx context.Context, order string) ([]*model.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Class
	for _, class := range r.classes {
		copied := *class
		out = append(out, &copied)
	}
	switch order {
	case repository.OrderByPointsDesc:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Points != out[j].Points {
				return out[i].Points > out[j].Points
			}
			return out[i].Name < out[j].Name
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (r *fakeClassRepo) Update(ctx context.Context, id uuid.UUID, name, teacher string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	class, ok := r.classes[id.String()]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	class.Name = name
	class.Teacher = teacher
	class.Points = points
	return nil
}

func (r *fakeClassRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.classes, id)
	return nil
}

func (r *fakeClassRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.classes)), nil
}

func (r *fakeClassRepo) SumPoints(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, class := range r.classes {
		sum += int64(class.Points)
	}
	return sum, nil
}

// fakePointsRepo applies the increment and the append under one lock,
// mirroring the transactional repository.
type fakePointsRepo struct {
	mu      sync.Mutex
	classes *fakeClassRepo
	entries []*model.PointsEntry
}

func newFakePointsRepo(classes *fakeClassRepo) *fakePointsRepo {
	return &fakePointsRepo{classes: classes}
}

func (r *fakePointsRepo) Award(ctx context.Context, classID uuid.UUID, entry *model.PointsEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes.mu.Lock()
	class, ok := r.classes.classes[classID.String()]
	if !ok {
		r.classes.mu.Unlock()
		return gorm.ErrRecordNotFound
	}
	class.Points += entry.Points
	r.classes.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakePointsRepo) FindRecent(ctx context.Context, limit int) ([]*model.PointsEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.PointsEntry, len(r.entries))
	copy(out, r.entries)
	// newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePointsRepo) FindRecentBySupervisor(ctx context.Context, supervisorID uuid.UUID, limit int) ([]*model.PointsEntry, error) {
	all, err := r.FindRecent(ctx, len(r.entries))
	if err != nil {
		return nil, err
	}
	var out []*model.PointsEntry
	for _, entry := range all {
		if entry.SupervisorID == supervisorID {
			out = append(out, entry)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePointsRepo) SumByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, entry := range r.entries {
		if entry.ClassID == classID {
			sum += int64(entry.Points)
		}
	}
	return sum, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	deleted  []string
	saveErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (s *fakeSessionStore) Enabled() bool { return true }

func (s *fakeSessionStore) Save(ctx context.Context, tokenID string, sess session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[tokenID] = sess
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, tokenID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[tokenID]; ok {
		return &sess, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeSessionStore) Refresh(ctx context.Context, tokenID string, sess session.Session) error {
	return s.Save(ctx, tokenID, sess, 0)
}

func (s *fakeSessionStore) Delete(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	s.deleted = append(s.deleted, tokenID)
	return nil
}

func (s *fakeSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type fakeIdentityRepo struct {
	mu         sync.Mutex
	identities map[string]*model.Identity
}

func newFakeIdentityRepoForService() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: make(map[string]*model.Identity)}
}

func (r *fakeIdentityRepo) Create(ctx context.Context, identity *model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	r.identities[identity.Email] = identity
	return nil
}

func (r *fakeIdentityRepo) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range r.identities {
		if identity.ID.String() == id {
			return identity, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeIdentityRepo) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity, ok := r.identities[email]; ok {
		return identity, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeIdentityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.identities)
}

// noopPublisher publishes nowhere; NewPublisher(nil) is a no-op by contract.
func noopPublisher() *realtime.Publisher {
	return realtime.NewPublisher(nil)
}
