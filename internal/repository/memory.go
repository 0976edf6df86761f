package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MemoryUserRepository keeps accounts in process memory. Used when no
// Postgres DSN is configured and in tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository returns an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	email := normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	user.Email = email
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[normalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// MemoryComplaintRepository keeps complaints in process memory and resolves
// owners through a UserRepository.
type MemoryComplaintRepository struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
	users      UserRepository
	now        func() time.Time
}

// NewMemoryComplaintRepository returns an empty store.
func NewMemoryComplaintRepository(users UserRepository) *MemoryComplaintRepository {
	return &MemoryComplaintRepository{
		complaints: make(map[string]domain.Complaint),
		users:      users,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	now := r.now()
	complaint.ID = uuid.NewString()
	complaint.DateSubmitted = now
	complaint.UpdatedAt = now

	stored := *complaint
	stored.User = nil

	r.mu.Lock()
	defer r.mu.Unlock()
	r.complaints[stored.ID] = stored
	return nil
}

func (r *MemoryComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.mu.RLock()
	complaint, ok := r.complaints[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	r.resolveOwner(ctx, &complaint)
	return &complaint, nil
}

func (r *MemoryComplaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	r.mu.Lock()
	complaint, ok := r.complaints[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	complaint.Status = status
	complaint.UpdatedAt = r.now()
	r.complaints[id] = complaint
	r.mu.Unlock()

	r.resolveOwner(ctx, &complaint)
	return &complaint, nil
}

func (r *MemoryComplaintRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return ErrNotFound
	}
	delete(r.complaints, id)
	return nil
}

func (r *MemoryComplaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	term := strings.ToLower(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	result := make([]domain.Complaint, 0, len(r.complaints))
	for _, complaint := range r.complaints {
		if filter.Status != "" && complaint.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && complaint.Priority != filter.Priority {
			continue
		}
		if term != "" && !matchesSearch(complaint, term) {
			continue
		}
		result = append(result, complaint)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].DateSubmitted.Equal(result[j].DateSubmitted) {
			return result[i].ID > result[j].ID
		}
		return result[i].DateSubmitted.After(result[j].DateSubmitted)
	})
	for i := range result {
		r.resolveOwner(ctx, &result[i])
	}
	return result, nil
}

func (r *MemoryComplaintRepository) resolveOwner(ctx context.Context, complaint *domain.Complaint) {
	if r.users == nil {
		return
	}
	user, err := r.users.GetByID(ctx, complaint.UserID)
	if err != nil {
		return
	}
	complaint.User = &domain.ComplaintOwner{ID: user.ID, Name: user.Name, Email: user.Email}
}

func matchesSearch(complaint domain.Complaint, term string) bool {
	return strings.Contains(strings.ToLower(complaint.Title), term) ||
		strings.Contains(strings.ToLower(complaint.Description), term) ||
		strings.Contains(strings.ToLower(complaint.Category), term)
}
