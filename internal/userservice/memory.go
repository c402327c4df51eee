package userservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryUserStore keeps users in process memory. Writes are serialized by mu.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
	order []uuid.UUID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]*User)}
}

func (s *MemoryUserStore) Insert(_ context.Context, u *User) error {
	if err := checkUsername(u.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return ErrDuplicateUsername
		}
	}

	u.ID = uuid.New()
	u.Blogs = []uuid.UUID{}

	stored := cloneUser(u)
	s.users[u.ID] = stored
	s.order = append(s.order, u.ID)

	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneUser(u), nil
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetAll(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, *cloneUser(s.users[id]))
	}

	return users, nil
}

func (s *MemoryUserStore) AddBlog(_ context.Context, userID, blogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}

	u.Blogs = append(u.Blogs, blogID)

	return nil
}

func (s *MemoryUserStore) RemoveBlog(_ context.Context, userID, blogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}

	blogs := u.Blogs[:0]
	for _, id := range u.Blogs {
		if id != blogID {
			blogs = append(blogs, id)
		}
	}
	u.Blogs = blogs

	return nil
}

// Len reports the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

func cloneUser(u *User) *User {
	c := *u
	c.Blogs = append([]uuid.UUID{}, u.Blogs...)
	return &c
}
