package blogservice

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

// MemoryBlogStore keeps blogs in process memory. Writes are serialized by mu.
type MemoryBlogStore struct {
	mu    sync.RWMutex
	blogs map[uuid.UUID]Blog
	order []uuid.UUID
}

func NewMemoryBlogStore() *MemoryBlogStore {
	return &MemoryBlogStore{blogs: make(map[uuid.UUID]Blog)}
}

func (s *MemoryBlogStore) Insert(_ context.Context, b *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = uuid.New()

	stored := *b
	stored.User = nil
	s.blogs[b.ID] = stored
	s.order = append(s.order, b.ID)

	return nil
}

func (s *MemoryBlogStore) Get(_ context.Context, id uuid.UUID) (*Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}

	return &b, nil
}

func (s *MemoryBlogStore) GetAll(_ context.Context) ([]Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blogs := make([]Blog, 0, len(s.order))
	for _, id := range s.order {
		blogs = append(blogs, s.blogs[id])
	}

	return blogs, nil
}

func (s *MemoryBlogStore) Update(_ context.Context, b *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.blogs[b.ID]
	if !ok {
		return common.ErrRecordNotFound
	}

	existing.Title = b.Title
	existing.Author = b.Author
	existing.URL = b.URL
	existing.Likes = b.Likes
	s.blogs[b.ID] = existing

	b.UserID = existing.UserID

	return nil
}

func (s *MemoryBlogStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[id]; !ok {
		return common.ErrRecordNotFound
	}

	delete(s.blogs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// Len reports the number of stored blogs.
func (s *MemoryBlogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blogs)
}
