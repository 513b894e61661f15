package notification

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Insert(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error)
	CountUnread(ctx context.Context) (int, error)
}

// MemoryRepository keeps notifications in a slice. Used by tests.
type MemoryRepository struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, id uuid.UUID) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Read = true
			n := r.items[i]
			return &n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (r *MemoryRepository) CountUnread(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
