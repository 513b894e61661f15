package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Role  Role      `json:"role"`
}

// Directory resolves user records owned by the identity store.
type Directory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// MemoryDirectory is a map backed Directory for tests and local tooling.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewMemoryDirectory(users ...User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[uuid.UUID]User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *MemoryDirectory) Put(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MemoryDirectory) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
